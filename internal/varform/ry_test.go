package varform

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qchemd/internal/circuit"
	"qchemd/internal/initialstate"
)

func gateNames(c *circuit.Circuit) []string {
	out := make([]string, len(c.Gates))
	for i, g := range c.Gates {
		out[i] = g.Name
	}
	return out
}

func TestRYShape(t *testing.T) {
	r, err := NewRY(4, WithDepth(2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if r.NumQubits() != 4 || r.NumParameters() != 12 {
		t.Fatalf("qubits=%d params=%d", r.NumQubits(), r.NumParameters())
	}
	bounds := r.ParameterBounds()
	if len(bounds) != 12 || *bounds[0].Lower != -math.Pi || *bounds[11].Upper != math.Pi {
		t.Fatalf("unexpected bounds %v", bounds)
	}
	if !r.SupportParameterizedCircuit() {
		t.Fatalf("RY should support parameterized circuits")
	}
	if r.PreferredInitPoints() != nil {
		t.Fatalf("no initial state means no preference")
	}
}

func TestRYSkipUnentangled(t *testing.T) {
	r, err := NewRY(4, WithDepth(2), WithEntanglerMap([][]int{{0, 1}}), WithSkipUnentangledQubits(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// 4 in the first layer, then 2 entangled qubits per block
	if r.NumParameters() != 8 {
		t.Fatalf("params=%d want 8", r.NumParameters())
	}
	params := make([]float64, 8)
	c, err := r.ConstructCircuit(params, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	want := []string{"ry", "ry", "ry", "ry", "barrier", "cz", "ry", "ry", "barrier", "cz", "ry", "ry"}
	if diff := cmp.Diff(want, gateNames(c)); diff != "" {
		t.Fatalf("gates (-want +got):\n%s", diff)
	}
}

func TestRYCircuitLinearCX(t *testing.T) {
	r, err := NewRY(2, WithDepth(1), WithEntanglement("linear"), WithEntanglementGate(GateCX))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c, err := r.ConstructCircuit([]float64{0.1, 0.2, 0.3, 0.4}, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	got, err := c.QASM()
	if err != nil {
		t.Fatalf("qasm: %v", err)
	}
	want := strings.Join([]string{
		"OPENQASM 2.0;",
		`include "qelib1.inc";`,
		"qreg q[2];",
		"ry(0.1) q[0];",
		"ry(0.2) q[1];",
		"barrier q[0],q[1];",
		"cx q[0],q[1];",
		"ry(0.3) q[0];",
		"ry(0.4) q[1];",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("qasm (-want +got):\n%s", diff)
	}
}

func TestRYParameterizedMatchesNumeric(t *testing.T) {
	r, err := NewRY(3, WithDepth(1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	params := []float64{1, 2, 3, 4, 5, 6}
	sym, err := r.ConstructParameterizedCircuit("", nil)
	if err != nil {
		t.Fatalf("parameterized: %v", err)
	}
	if len(sym.Parameters()) != 6 || sym.Parameters()[0] != "θ[0]" {
		t.Fatalf("unexpected parameters %v", sym.Parameters())
	}
	values := map[string]float64{}
	for i, name := range sym.Parameters() {
		values[name] = params[i]
	}
	bound, err := sym.Bind(values)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	num, err := r.ConstructCircuit(params, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if bound.String() != num.String() {
		t.Fatalf("bound circuit differs:\n%s\nvs\n%s", bound, num)
	}

	r.SetSupportParameterizedCircuit(false)
	if _, err := r.ConstructParameterizedCircuit("", nil); err == nil {
		t.Fatalf("expected error when parameterized support is off")
	}
}

func TestRYWithInitialState(t *testing.T) {
	z, _ := initialstate.NewZero(2)
	r, err := NewRY(2, WithDepth(1), WithInitialState(z))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if diff := cmp.Diff(make([]float64, 4), r.PreferredInitPoints()); diff != "" {
		t.Fatalf("init points (-want +got):\n%s", diff)
	}
	q := circuit.NewQuantumRegister(2, "a")
	c, err := r.ConstructCircuit(make([]float64, 4), q)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if !c.HasRegister(q) {
		t.Fatalf("supplied register not used")
	}
	wrong, _ := initialstate.NewZero(3)
	if _, err := NewRY(2, WithInitialState(wrong)); err == nil {
		t.Fatalf("expected qubit mismatch error")
	}
}

func TestRYRejectsBadOptions(t *testing.T) {
	bad := map[string][]RYOption{
		"depth":        {WithDepth(0)},
		"gate":         {WithEntanglementGate("swap")},
		"entanglement": {WithEntanglement("ring")},
		"map":          {WithEntanglerMap([][]int{{0, 9}})},
	}
	for name, opts := range bad {
		if _, err := NewRY(3, opts...); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := NewRY(0); err == nil {
		t.Fatalf("expected error for zero qubits")
	}
	r, _ := NewRY(2, WithDepth(1))
	if _, err := r.ConstructCircuit(make([]float64, 4), circuit.NewQuantumRegister(1, "q")); err == nil {
		t.Fatalf("expected error for undersized register")
	}
}

func TestRYSetting(t *testing.T) {
	r, _ := NewRY(2, WithDepth(1), WithEntanglement("linear"))
	s := Setting(r)
	for _, want := range []string{
		"Variational Form: RY\n",
		"-- num_parameters: 4\n",
		"-- depth: 1\n",
		"-- entanglement: linear\n",
		"-- entangler_map: [[0 1]]\n",
		"-- entanglement_gate: cz\n",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("setting missing %q:\n%s", want, s)
		}
	}
}
