// Package circuit is a small quantum-circuit model: registers, an ordered
// gate list, symbolic angles with binding, and OpenQASM 2.0 export. It
// carries no simulation.
package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// Gate names.
const (
	GateH       = "h"
	GateX       = "x"
	GateRY      = "ry"
	GateRZ      = "rz"
	GateCX      = "cx"
	GateCZ      = "cz"
	GateBarrier = "barrier"
)

// QuantumRegister is a named group of qubits.
type QuantumRegister struct {
	Name string
	Size int
}

// NewQuantumRegister returns a register of size qubits. An empty name
// defaults to "q".
func NewQuantumRegister(size int, name string) *QuantumRegister {
	if name == "" {
		name = "q"
	}
	return &QuantumRegister{Name: name, Size: size}
}

// Qubit returns the i-th qubit of the register.
func (r *QuantumRegister) Qubit(i int) Qubit { return Qubit{Reg: r, Index: i} }

// Qubits returns every qubit of the register in order.
func (r *QuantumRegister) Qubits() []Qubit {
	out := make([]Qubit, r.Size)
	for i := range out {
		out[i] = r.Qubit(i)
	}
	return out
}

// Qubit addresses one qubit of a register.
type Qubit struct {
	Reg   *QuantumRegister
	Index int
}

func (q Qubit) String() string { return fmt.Sprintf("%s[%d]", q.Reg.Name, q.Index) }

// Angle is a rotation angle, either numeric or a named parameter.
type Angle struct {
	Value float64
	Param string
}

// Num returns a numeric angle.
func Num(v float64) Angle { return Angle{Value: v} }

// Sym returns a symbolic angle bound later with Circuit.Bind.
func Sym(name string) Angle { return Angle{Param: name} }

// IsSymbolic reports whether the angle is still unbound.
func (a Angle) IsSymbolic() bool { return a.Param != "" }

func (a Angle) String() string {
	if a.IsSymbolic() {
		return a.Param
	}
	return strconv.FormatFloat(a.Value, 'g', -1, 64)
}

// Gate is one instruction of a circuit.
type Gate struct {
	Name   string
	Angles []Angle
	Qubits []Qubit
}

// Circuit is an ordered list of gates over one or more registers.
type Circuit struct {
	Registers []*QuantumRegister
	Gates     []Gate
}

// New returns an empty circuit over regs.
func New(regs ...*QuantumRegister) *Circuit {
	c := &Circuit{}
	for _, r := range regs {
		c.AddRegister(r)
	}
	return c
}

// AddRegister adds r unless the circuit already holds it.
func (c *Circuit) AddRegister(r *QuantumRegister) {
	if c.HasRegister(r) {
		return
	}
	c.Registers = append(c.Registers, r)
}

// HasRegister reports whether r belongs to the circuit.
func (c *Circuit) HasRegister(r *QuantumRegister) bool {
	for _, have := range c.Registers {
		if have == r {
			return true
		}
	}
	return false
}

// NumQubits is the total qubit count over all registers.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, r := range c.Registers {
		n += r.Size
	}
	return n
}

// Append adds a gate. It panics if a qubit lies outside the circuit's
// registers; gate construction with bad indices is a programming error.
func (c *Circuit) Append(name string, angles []Angle, qubits ...Qubit) {
	for _, q := range qubits {
		if q.Reg == nil || !c.HasRegister(q.Reg) {
			panic(fmt.Sprintf("circuit: qubit %v not in circuit", q))
		}
		if q.Index < 0 || q.Index >= q.Reg.Size {
			panic(fmt.Sprintf("circuit: qubit index %d out of range for %s[%d]", q.Index, q.Reg.Name, q.Reg.Size))
		}
	}
	c.Gates = append(c.Gates, Gate{Name: name, Angles: angles, Qubits: qubits})
}

func (c *Circuit) H(q Qubit) { c.Append(GateH, nil, q) }
func (c *Circuit) X(q Qubit) { c.Append(GateX, nil, q) }
func (c *Circuit) RY(theta Angle, q Qubit) { c.Append(GateRY, []Angle{theta}, q) }
func (c *Circuit) RZ(phi Angle, q Qubit) { c.Append(GateRZ, []Angle{phi}, q) }
func (c *Circuit) CX(ctrl, target Qubit) { c.Append(GateCX, nil, ctrl, target) }
func (c *Circuit) CZ(ctrl, target Qubit) { c.Append(GateCZ, nil, ctrl, target) }
func (c *Circuit) Barrier(qubits ...Qubit) { c.Append(GateBarrier, nil, qubits...) }

// Extend appends other's registers and gates to c.
func (c *Circuit) Extend(other *Circuit) {
	for _, r := range other.Registers {
		c.AddRegister(r)
	}
	c.Gates = append(c.Gates, other.Gates...)
}

// Parameters lists the symbolic parameter names in order of first use.
func (c *Circuit) Parameters() []string {
	seen := map[string]bool{}
	var out []string
	for _, g := range c.Gates {
		for _, a := range g.Angles {
			if a.IsSymbolic() && !seen[a.Param] {
				seen[a.Param] = true
				out = append(out, a.Param)
			}
		}
	}
	return out
}

// Bind returns a copy of c with every symbolic angle replaced by its value.
// Every parameter must be present in values.
func (c *Circuit) Bind(values map[string]float64) (*Circuit, error) {
	out := &Circuit{Registers: append([]*QuantumRegister(nil), c.Registers...)}
	out.Gates = make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		ng := Gate{Name: g.Name, Qubits: g.Qubits}
		if len(g.Angles) > 0 {
			ng.Angles = make([]Angle, len(g.Angles))
			for j, a := range g.Angles {
				if !a.IsSymbolic() {
					ng.Angles[j] = a
					continue
				}
				v, ok := values[a.Param]
				if !ok {
					return nil, fmt.Errorf("circuit: no value for parameter %q", a.Param)
				}
				ng.Angles[j] = Num(v)
			}
		}
		out.Gates[i] = ng
	}
	return out, nil
}

// QASM renders the circuit as OpenQASM 2.0. Unbound parameters are an
// error since OpenQASM 2.0 has no symbolic angles.
func (c *Circuit) QASM() (string, error) {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	for _, r := range c.Registers {
		fmt.Fprintf(&b, "qreg %s[%d];\n", r.Name, r.Size)
	}
	for _, g := range c.Gates {
		b.WriteString(g.Name)
		if len(g.Angles) > 0 {
			args := make([]string, len(g.Angles))
			for i, a := range g.Angles {
				if a.IsSymbolic() {
					return "", fmt.Errorf("circuit: unbound parameter %q", a.Param)
				}
				args[i] = a.String()
			}
			b.WriteString("(" + strings.Join(args, ",") + ")")
		}
		qs := make([]string, len(g.Qubits))
		for i, q := range g.Qubits {
			qs[i] = q.String()
		}
		b.WriteString(" " + strings.Join(qs, ",") + ";\n")
	}
	return b.String(), nil
}

// String renders one gate per line, symbolic angles included. Useful for
// logs; use QASM for interchange.
func (c *Circuit) String() string {
	var b strings.Builder
	for _, g := range c.Gates {
		b.WriteString(g.Name)
		if len(g.Angles) > 0 {
			args := make([]string, len(g.Angles))
			for i, a := range g.Angles {
				args[i] = a.String()
			}
			b.WriteString("(" + strings.Join(args, ",") + ")")
		}
		qs := make([]string, len(g.Qubits))
		for i, q := range g.Qubits {
			qs[i] = q.String()
		}
		b.WriteString(" " + strings.Join(qs, ",") + "\n")
	}
	return b.String()
}
