package varform

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qchemd/internal/circuit"
)

// minimalForm is the smallest concrete form: one qubit, one parameter.
type minimalForm struct{ Base }

func (m *minimalForm) Name() string { return "Minimal" }

func (m *minimalForm) Describe() []Field { return m.BaseFields() }

func (m *minimalForm) ConstructCircuit(params []float64, q *circuit.QuantumRegister) (*circuit.Circuit, error) {
	if err := m.CheckParameters(params); err != nil {
		return nil, err
	}
	if q == nil {
		q = circuit.NewQuantumRegister(1, "q")
	}
	c := circuit.New(q)
	c.RY(circuit.Num(params[0]), q.Qubit(0))
	return c, nil
}

func TestBaseIsNotAVariationalForm(t *testing.T) {
	var v any = &Base{}
	if _, ok := v.(VariationalForm); ok {
		t.Fatalf("Base must not satisfy VariationalForm on its own")
	}
}

func TestBaseZeroValue(t *testing.T) {
	var b Base
	if b.NumParameters() != 0 || b.NumQubits() != 0 || len(b.ParameterBounds()) != 0 || b.SupportParameterizedCircuit() {
		t.Fatalf("unexpected zero value: %+v", b)
	}
	if b.PreferredInitPoints() != nil {
		t.Fatalf("expected no preferred init points")
	}
	b.SetSupportParameterizedCircuit(true)
	if !b.SupportParameterizedCircuit() {
		t.Fatalf("setter had no effect")
	}
}

func TestSettingListsFields(t *testing.T) {
	m := &minimalForm{}
	m.Configure(1, 1, []Bound{{Lower: nil, Upper: nil}})
	got := Setting(m)
	want := "Variational Form: Minimal\n" +
		"-- num_parameters: 1\n" +
		"-- num_qubits: 1\n" +
		"-- bounds: [(None, None)]\n" +
		"-- support_parameterized_circuit: false\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("setting (-want +got):\n%s", diff)
	}
}

func TestParameterCountEnforced(t *testing.T) {
	m := &minimalForm{}
	m.Configure(1, 1, nil)
	_, err := m.ConstructCircuit([]float64{0.1, 0.2}, nil)
	var pce *ParameterCountError
	if !errors.As(err, &pce) || pce.Want != 1 || pce.Got != 2 {
		t.Fatalf("expected ParameterCountError{1,2}, got %v", err)
	}
}

func TestBoundString(t *testing.T) {
	lo := -1.5
	cases := map[string]Bound{
		"(-1.5, None)": {Lower: &lo},
		"(None, None)": {},
		"(0, 2)":       Bounded(0, 2),
	}
	for want, b := range cases {
		if got := b.String(); got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestEntanglerPassthroughs(t *testing.T) {
	m, err := GetEntanglerMap("linear", 3, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(m) != 2 || m[0] != [2]int{1, 2} {
		t.Fatalf("unexpected map %v", m)
	}
	if _, err := ValidateEntanglerMap([][]int{{0, 5}}, 3); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range error, got %v", err)
	}
}
