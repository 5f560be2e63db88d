// Package entangler builds and validates entangler maps, the lists of
// qubit pairs that receive two-qubit entangling gates.
package entangler

import (
	"fmt"
	"sort"
)

// Map types accepted by Get.
const (
	Full   = "full"
	Linear = "linear"
)

// Pair is a (control, target) qubit pair.
type Pair [2]int

// Map is an ordered list of pairs.
type Map []Pair

// Get builds a map of the given type over numQubits qubits, shifting every
// index by offset. Fewer than two qubits yield an empty map whatever the
// type.
func Get(mapType string, numQubits, offset int) (Map, error) {
	var out Map
	if numQubits < 2 {
		return out, nil
	}
	if mapType != Full && mapType != Linear {
		return nil, fmt.Errorf("map type %q not supported: use %q or %q", mapType, Full, Linear)
	}
	switch mapType {
	case Full:
		for i := 0; i < numQubits; i++ {
			for j := i + 1; j < numQubits; j++ {
				out = append(out, Pair{i + offset, j + offset})
			}
		}
	case Linear:
		for i := 0; i < numQubits-1; i++ {
			out = append(out, Pair{i + offset, i + offset + 1})
		}
	}
	return out, nil
}

// Validate checks a user-supplied map against numQubits. Every item must be
// a pair of distinct in-range qubits, and a pair may not appear together with
// its reverse.
func Validate(raw [][]int, numQubits int) (Map, error) {
	out := make(Map, 0, len(raw))
	seen := map[Pair]bool{}
	for i, item := range raw {
		if len(item) != 2 {
			return nil, fmt.Errorf("entangler map item %d: want a pair, got %v", i, item)
		}
		p := Pair{item[0], item[1]}
		for _, q := range p {
			if q < 0 || q >= numQubits {
				return nil, fmt.Errorf("entangler map item %d: qubit %d out of range [0, %d)", i, q, numQubits)
			}
		}
		if p[0] == p[1] {
			return nil, fmt.Errorf("entangler map item %d: qubit %d entangled with itself", i, p[0])
		}
		if seen[Pair{p[1], p[0]}] {
			return nil, fmt.Errorf("qubit %d and %d cross-entangled", p[0], p[1])
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// FromDict converts the {control: [targets]} form into raw pairs ordered by
// control, keeping each target list in the given order.
func FromDict(d map[int][]int) [][]int {
	ctrls := make([]int, 0, len(d))
	for c := range d {
		ctrls = append(ctrls, c)
	}
	sort.Ints(ctrls)
	var out [][]int
	for _, c := range ctrls {
		for _, t := range d[c] {
			out = append(out, []int{c, t})
		}
	}
	return out
}

// Qubits returns the distinct qubits a map touches, ascending.
func (m Map) Qubits() []int {
	seen := map[int]bool{}
	var out []int
	for _, p := range m {
		for _, q := range p {
			if !seen[q] {
				seen[q] = true
				out = append(out, q)
			}
		}
	}
	sort.Ints(out)
	return out
}
