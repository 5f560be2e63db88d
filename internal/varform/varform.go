// Package varform defines the contract for variational forms (ansatz
// circuits whose parameters an optimizer tunes) and ships the RY ansatz.
//
// Concrete forms embed Base for the shared state and supply Name,
// ConstructCircuit and Describe themselves. Base alone does not satisfy
// VariationalForm, so a form that forgets ConstructCircuit fails to compile.
package varform

import (
	"fmt"
	"strconv"
	"strings"

	"qchemd/internal/circuit"
	"qchemd/internal/entangler"
)

// VariationalForm is implemented by every ansatz.
type VariationalForm interface {
	// Name identifies the form in diagnostics.
	Name() string
	// ConstructCircuit builds the circuit for params. q is an optional
	// register to build on; nil creates a fresh one. len(params) must equal
	// NumParameters.
	ConstructCircuit(params []float64, q *circuit.QuantumRegister) (*circuit.Circuit, error)
	NumParameters() int
	NumQubits() int
	// ParameterBounds has one entry per parameter; nil ends are unbounded.
	ParameterBounds() []Bound
	SupportParameterizedCircuit() bool
	SetSupportParameterizedCircuit(bool)
	// PreferredInitPoints is an optimizer starting point, or nil for no
	// preference.
	PreferredInitPoints() []float64
	// Describe lists the form's internal fields for Setting.
	Describe() []Field
}

// Bound is a (lower, upper) pair for one parameter.
type Bound struct {
	Lower *float64
	Upper *float64
}

// Bounded returns a bound with both ends set.
func Bounded(lower, upper float64) Bound { return Bound{Lower: &lower, Upper: &upper} }

func (b Bound) String() string {
	end := func(v *float64) string {
		if v == nil {
			return "None"
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}
	return "(" + end(b.Lower) + ", " + end(b.Upper) + ")"
}

// Field is one named value in a diagnostic listing.
type Field struct {
	Name  string
	Value any
}

// Base carries the state shared by all variational forms. The zero value
// has no parameters, no qubits, no bounds and no parameterized-circuit
// support.
type Base struct {
	numParameters               int
	numQubits                   int
	bounds                      []Bound
	supportParameterizedCircuit bool
}

// Configure sets the shape of the form. Concrete forms call it from their
// constructor.
func (b *Base) Configure(numQubits, numParameters int, bounds []Bound) {
	b.numQubits = numQubits
	b.numParameters = numParameters
	b.bounds = append([]Bound(nil), bounds...)
}

func (b *Base) NumParameters() int { return b.numParameters }

func (b *Base) NumQubits() int { return b.numQubits }

func (b *Base) ParameterBounds() []Bound { return append([]Bound(nil), b.bounds...) }

func (b *Base) SupportParameterizedCircuit() bool { return b.supportParameterizedCircuit }

func (b *Base) SetSupportParameterizedCircuit(v bool) { b.supportParameterizedCircuit = v }

func (b *Base) PreferredInitPoints() []float64 { return nil }

// BaseFields lists the shared state in a fixed order, for use at the head
// of a concrete form's Describe.
func (b *Base) BaseFields() []Field {
	return []Field{
		{"num_parameters", b.numParameters},
		{"num_qubits", b.numQubits},
		{"bounds", b.bounds},
		{"support_parameterized_circuit", b.supportParameterizedCircuit},
	}
}

// CheckParameters returns a ParameterCountError unless len(params) matches
// NumParameters.
func (b *Base) CheckParameters(params []float64) error {
	if len(params) != b.numParameters {
		return &ParameterCountError{Want: b.numParameters, Got: len(params)}
	}
	return nil
}

// ParameterCountError reports a parameter vector of the wrong length.
type ParameterCountError struct {
	Want int
	Got  int
}

func (e *ParameterCountError) Error() string {
	return fmt.Sprintf("num of parameters %d does not match expected %d", e.Got, e.Want)
}

// Setting renders a multi-line report of vf's fields for logs.
func Setting(vf VariationalForm) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Variational Form: %s\n", vf.Name())
	for _, f := range vf.Describe() {
		fmt.Fprintf(&b, "-- %s: %v\n", f.Name, f.Value)
	}
	return b.String()
}

// GetEntanglerMap builds a "full" or "linear" entangler map.
func GetEntanglerMap(mapType string, numQubits, offset int) (entangler.Map, error) {
	return entangler.Get(mapType, numQubits, offset)
}

// ValidateEntanglerMap checks a user-supplied entangler map.
func ValidateEntanglerMap(m [][]int, numQubits int) (entangler.Map, error) {
	return entangler.Validate(m, numQubits)
}
