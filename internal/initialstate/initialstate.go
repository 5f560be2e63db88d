// Package initialstate defines the trial states a variational form can start
// from.
package initialstate

import (
	"fmt"

	"qchemd/internal/circuit"
)

// Mode selects what ConstructCircuit produces.
type Mode string

const (
	ModeVector  Mode = "vector"
	ModeCircuit Mode = "circuit"
)

// MaxVectorQubits is the largest register ModeVector will expand into a
// dense state vector (2^30 amplitudes, 16 GiB).
const MaxVectorQubits = 30

// InitialState prepares a register before a variational form's layers.
type InitialState interface {
	// ConstructCircuit returns the state vector in ModeVector and a
	// preparation circuit in ModeCircuit. q may be nil; a fresh register
	// named "q" is created then.
	ConstructCircuit(mode Mode, q *circuit.QuantumRegister) (*circuit.Circuit, []complex128, error)
	// Bitstr is the computational-basis bit string of the state, qubit 0
	// first, or nil when the state is not a basis state.
	Bitstr() []bool
	NumQubits() int
}

// Zero is the all-zeros basis state |0…0>.
type Zero struct {
	numQubits int
}

// NewZero returns the zero state over numQubits qubits.
func NewZero(numQubits int) (*Zero, error) {
	if numQubits < 1 {
		return nil, fmt.Errorf("zero state: num qubits must be >= 1, got %d", numQubits)
	}
	return &Zero{numQubits: numQubits}, nil
}

func (z *Zero) NumQubits() int { return z.numQubits }

func (z *Zero) Bitstr() []bool { return make([]bool, z.numQubits) }

func (z *Zero) ConstructCircuit(mode Mode, q *circuit.QuantumRegister) (*circuit.Circuit, []complex128, error) {
	switch mode {
	case ModeVector:
		if z.numQubits > MaxVectorQubits {
			return nil, nil, fmt.Errorf("zero state: %d qubits exceed the %d-qubit state vector limit", z.numQubits, MaxVectorQubits)
		}
		v := make([]complex128, 1<<z.numQubits)
		v[0] = 1
		return nil, v, nil
	case ModeCircuit:
		if q == nil {
			q = circuit.NewQuantumRegister(z.numQubits, "q")
		}
		if q.Size < z.numQubits {
			return nil, nil, fmt.Errorf("zero state: register %s has %d qubits, need %d", q.Name, q.Size, z.numQubits)
		}
		return circuit.New(q), nil, nil
	default:
		return nil, nil, fmt.Errorf("mode should be either %q or %q, got %q", ModeVector, ModeCircuit, mode)
	}
}
