package varform

import (
	"fmt"
	"math"

	"qchemd/internal/circuit"
	"qchemd/internal/entangler"
	"qchemd/internal/initialstate"
)

// Entanglement gates supported by RY.
const (
	GateCZ = "cz"
	GateCX = "cx"
)

const defaultRYDepth = 3

// RY is the layered RY ansatz: a rotation layer, then depth repetitions of
// an entangling block followed by another rotation layer.
type RY struct {
	Base
	depth                 int
	entanglement          string
	entanglerMap          entangler.Map
	entangledQubits       []int
	entanglementGate      string
	skipUnentangledQubits bool
	initialState          initialstate.InitialState
}

var _ VariationalForm = (*RY)(nil)

// RYOption configures NewRY.
type RYOption func(*ryConfig)

type ryConfig struct {
	depth                 int
	entanglement          string
	entanglerMap          [][]int
	entanglementGate      string
	skipUnentangledQubits bool
	initialState          initialstate.InitialState
}

// WithDepth sets the number of entangling blocks.
func WithDepth(d int) RYOption { return func(c *ryConfig) { c.depth = d } }

// WithEntanglement selects a generated map, entangler.Full or
// entangler.Linear.
func WithEntanglement(t string) RYOption { return func(c *ryConfig) { c.entanglement = t } }

// WithEntanglerMap supplies an explicit map; it overrides WithEntanglement.
func WithEntanglerMap(m [][]int) RYOption { return func(c *ryConfig) { c.entanglerMap = m } }

// WithEntanglementGate selects GateCZ or GateCX.
func WithEntanglementGate(g string) RYOption { return func(c *ryConfig) { c.entanglementGate = g } }

// WithSkipUnentangledQubits drops rotations on qubits outside the map after
// the first layer.
func WithSkipUnentangledQubits(v bool) RYOption {
	return func(c *ryConfig) { c.skipUnentangledQubits = v }
}

// WithInitialState prepends the state's preparation circuit.
func WithInitialState(s initialstate.InitialState) RYOption {
	return func(c *ryConfig) { c.initialState = s }
}

// NewRY builds an RY form over numQubits qubits.
func NewRY(numQubits int, opts ...RYOption) (*RY, error) {
	cfg := ryConfig{depth: defaultRYDepth, entanglement: entangler.Full, entanglementGate: GateCZ}
	for _, o := range opts {
		o(&cfg)
	}
	if numQubits < 1 {
		return nil, fmt.Errorf("RY: num qubits must be >= 1, got %d", numQubits)
	}
	if cfg.depth < 1 {
		return nil, fmt.Errorf("RY: depth must be >= 1, got %d", cfg.depth)
	}
	if cfg.entanglementGate != GateCZ && cfg.entanglementGate != GateCX {
		return nil, fmt.Errorf("RY: entanglement gate %q not supported: use %q or %q", cfg.entanglementGate, GateCZ, GateCX)
	}
	if cfg.initialState != nil && cfg.initialState.NumQubits() != numQubits {
		return nil, fmt.Errorf("RY: initial state has %d qubits, form has %d", cfg.initialState.NumQubits(), numQubits)
	}

	var (
		m   entangler.Map
		err error
	)
	if cfg.entanglerMap != nil {
		m, err = ValidateEntanglerMap(cfg.entanglerMap, numQubits)
	} else {
		m, err = GetEntanglerMap(cfg.entanglement, numQubits, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("RY: %w", err)
	}

	r := &RY{
		depth:                 cfg.depth,
		entanglement:          cfg.entanglement,
		entanglerMap:          m,
		entangledQubits:       m.Qubits(),
		entanglementGate:      cfg.entanglementGate,
		skipUnentangledQubits: cfg.skipUnentangledQubits,
		initialState:          cfg.initialState,
	}
	n := numQubits * (cfg.depth + 1)
	if cfg.skipUnentangledQubits {
		n = numQubits + cfg.depth*len(r.entangledQubits)
	}
	bounds := make([]Bound, n)
	for i := range bounds {
		bounds[i] = Bounded(-math.Pi, math.Pi)
	}
	r.Configure(numQubits, n, bounds)
	r.SetSupportParameterizedCircuit(true)
	return r, nil
}

func (r *RY) Name() string { return "RY" }

// PreferredInitPoints is all zeros when the initial state is a basis state.
func (r *RY) PreferredInitPoints() []float64 {
	if r.initialState == nil || r.initialState.Bitstr() == nil {
		return nil
	}
	return make([]float64, r.NumParameters())
}

func (r *RY) Describe() []Field {
	var initial any
	if r.initialState != nil {
		initial = fmt.Sprintf("%T", r.initialState)
	}
	return append(r.BaseFields(),
		Field{"depth", r.depth},
		Field{"entanglement", r.entanglement},
		Field{"entangler_map", r.entanglerMap},
		Field{"entangled_qubits", r.entangledQubits},
		Field{"entanglement_gate", r.entanglementGate},
		Field{"skip_unentangled_qubits", r.skipUnentangledQubits},
		Field{"initial_state", initial},
	)
}

// ConstructCircuit builds the circuit with numeric angles.
func (r *RY) ConstructCircuit(params []float64, q *circuit.QuantumRegister) (*circuit.Circuit, error) {
	if err := r.CheckParameters(params); err != nil {
		return nil, err
	}
	angles := make([]circuit.Angle, len(params))
	for i, p := range params {
		angles[i] = circuit.Num(p)
	}
	return r.build(angles, q)
}

// ConstructParameterizedCircuit builds the circuit with symbolic angles
// named prefix[0], prefix[1], ... An empty prefix defaults to "θ".
func (r *RY) ConstructParameterizedCircuit(prefix string, q *circuit.QuantumRegister) (*circuit.Circuit, error) {
	if !r.SupportParameterizedCircuit() {
		return nil, fmt.Errorf("RY: parameterized circuits disabled")
	}
	if prefix == "" {
		prefix = "θ"
	}
	angles := make([]circuit.Angle, r.NumParameters())
	for i := range angles {
		angles[i] = circuit.Sym(fmt.Sprintf("%s[%d]", prefix, i))
	}
	return r.build(angles, q)
}

func (r *RY) build(angles []circuit.Angle, q *circuit.QuantumRegister) (*circuit.Circuit, error) {
	if q == nil {
		q = circuit.NewQuantumRegister(r.NumQubits(), "q")
	}
	if q.Size < r.NumQubits() {
		return nil, fmt.Errorf("RY: register %s has %d qubits, need %d", q.Name, q.Size, r.NumQubits())
	}
	var c *circuit.Circuit
	if r.initialState != nil {
		ic, _, err := r.initialState.ConstructCircuit(initialstate.ModeCircuit, q)
		if err != nil {
			return nil, err
		}
		c = ic
	} else {
		c = circuit.New(q)
	}

	next := 0
	for i := 0; i < r.NumQubits(); i++ {
		c.RY(angles[next], q.Qubit(i))
		next++
	}
	layer := r.entangledQubits
	if !r.skipUnentangledQubits {
		layer = make([]int, r.NumQubits())
		for i := range layer {
			layer[i] = i
		}
	}
	for d := 0; d < r.depth; d++ {
		c.Barrier(q.Qubits()[:r.NumQubits()]...)
		for _, p := range r.entanglerMap {
			if r.entanglementGate == GateCZ {
				c.CZ(q.Qubit(p[0]), q.Qubit(p[1]))
			} else {
				c.CX(q.Qubit(p[0]), q.Qubit(p[1]))
			}
		}
		for _, i := range layer {
			c.RY(angles[next], q.Qubit(i))
			next++
		}
	}
	return c, nil
}
