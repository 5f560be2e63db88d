package drivers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"qchemd/internal/molecule"
)

const (
	// PyQuanteDriverName is the registry name of PyQuanteDriver and the
	// provenance name stamped on its molecules.
	PyQuanteDriverName = "PYQUANTE"
	// DefaultAtoms is H2 at its equilibrium bond length.
	DefaultAtoms = "H 0.0 0.0 0.0; H 0.0 0.0 0.735"

	defaultTol      = 1e-8
	defaultMaxIters = 100
)

// Units of the atom coordinates.
type Units string

const (
	UnitsAngstrom Units = "Angstrom"
	UnitsBohr     Units = "Bohr"
)

// Valid reports whether u is a known unit.
func (u Units) Valid() bool { return u == UnitsAngstrom || u == UnitsBohr }

// BasisType is the Gaussian basis set.
type BasisType string

const (
	BasisSTO3G  BasisType = "sto3g"
	Basis631G   BasisType = "6-31g"
	Basis631GSS BasisType = "6-31g**"
)

// Valid reports whether b is a supported basis set.
func (b BasisType) Valid() bool { return b == BasisSTO3G || b == Basis631G || b == Basis631GSS }

// HFMethodType selects the Hartree-Fock variant.
type HFMethodType string

const (
	HFMethodRHF  HFMethodType = "rhf"
	HFMethodROHF HFMethodType = "rohf"
	HFMethodUHF  HFMethodType = "uhf"
)

// Valid reports whether m is a supported Hartree-Fock variant.
func (m HFMethodType) Valid() bool {
	return m == HFMethodRHF || m == HFMethodROHF || m == HFMethodUHF
}

// IntegralRequest is the validated configuration handed to an
// IntegralComputer.
type IntegralRequest struct {
	Atoms        string       `json:"atoms"`
	Units        Units        `json:"units"`
	Charge       int          `json:"charge"`
	Multiplicity int          `json:"multiplicity"`
	Basis        BasisType    `json:"basis"`
	HFMethod     HFMethodType `json:"hf_method"`
	Tol          float64      `json:"tol"`
	MaxIters     int          `json:"maxiters"`
}

// IntegralComputer runs the Hartree-Fock calculation and integral
// transformation for a request.
type IntegralComputer interface {
	// Probe checks that the computer can run at all.
	Probe(ctx context.Context) error
	Compute(ctx context.Context, req IntegralRequest) (*molecule.QMolecule, error)
}

// PyQuanteDriver computes integrals with PyQuante2.
type PyQuanteDriver struct {
	req      IntegralRequest
	computer IntegralComputer
}

var _ Driver = (*PyQuanteDriver)(nil)

// PyQuanteOption overrides one default of NewPyQuanteDriver.
type PyQuanteOption func(*pyquanteSettings)

type pyquanteSettings struct {
	req      IntegralRequest
	computer IntegralComputer
}

func WithUnits(u Units) PyQuanteOption { return func(s *pyquanteSettings) { s.req.Units = u } }

func WithCharge(c int) PyQuanteOption { return func(s *pyquanteSettings) { s.req.Charge = c } }

func WithMultiplicity(m int) PyQuanteOption {
	return func(s *pyquanteSettings) { s.req.Multiplicity = m }
}

func WithBasis(b BasisType) PyQuanteOption { return func(s *pyquanteSettings) { s.req.Basis = b } }

func WithHFMethod(m HFMethodType) PyQuanteOption {
	return func(s *pyquanteSettings) { s.req.HFMethod = m }
}

// WithTolerance sets the SCF convergence tolerance.
func WithTolerance(tol float64) PyQuanteOption { return func(s *pyquanteSettings) { s.req.Tol = tol } }

// WithMaxIterations caps the SCF iterations.
func WithMaxIterations(n int) PyQuanteOption {
	return func(s *pyquanteSettings) { s.req.MaxIters = n }
}

// WithIntegralComputer replaces the default PyQuante2 subprocess computer.
func WithIntegralComputer(c IntegralComputer) PyQuanteOption {
	return func(s *pyquanteSettings) { s.computer = c }
}

// NewPyQuanteDriver is NewPyQuanteDriverContext with a background context.
func NewPyQuanteDriver(atoms any, opts ...PyQuanteOption) (*PyQuanteDriver, error) {
	return NewPyQuanteDriverContext(context.Background(), atoms, opts...)
}

// NewPyQuanteDriverContext validates the configuration and returns a driver.
// atoms is either a string with atoms separated by ';' or newlines, or a
// list of per-atom strings. ctx bounds the dependency probe.
//
// Checks run in order: the integral computer probe, the atoms type, then
// every field in declaration order. The first failure is returned.
func NewPyQuanteDriverContext(ctx context.Context, atoms any, opts ...PyQuanteOption) (*PyQuanteDriver, error) {
	s := pyquanteSettings{req: IntegralRequest{
		Units:        UnitsAngstrom,
		Charge:       0,
		Multiplicity: 1,
		Basis:        BasisSTO3G,
		HFMethod:     HFMethodRHF,
		Tol:          defaultTol,
		MaxIters:     defaultMaxIters,
	}}
	for _, o := range opts {
		o(&s)
	}
	if s.computer == nil {
		s.computer = NewPyQuante2("")
	}

	if err := s.computer.Probe(ctx); err != nil {
		return nil, err
	}
	normalized, ok := normalizeAtoms(atoms)
	if !ok {
		return nil, &ConfigError{
			Driver:     PyQuanteDriverName,
			Field:      "atoms",
			Constraint: "a string or a list of strings",
			Value:      atoms,
			msg:        fmt.Sprintf("Invalid atom input for PYQUANTE Driver '%v'", atoms),
		}
	}
	s.req.Atoms = normalized
	if err := validateRequest(s.req); err != nil {
		return nil, err
	}
	return &PyQuanteDriver{req: s.req, computer: s.computer}, nil
}

// normalizeAtoms joins list input with ';' and turns newlines in string
// input into ';'. Separators are not de-duplicated.
func normalizeAtoms(atoms any) (string, bool) {
	switch a := atoms.(type) {
	case string:
		return strings.ReplaceAll(a, "\n", ";"), true
	case []string:
		return strings.Join(a, ";"), true
	case []any:
		parts := make([]string, len(a))
		for i, v := range a {
			s, ok := v.(string)
			if !ok {
				return "", false
			}
			parts[i] = s
		}
		return strings.Join(parts, ";"), true
	}
	return "", false
}

type fieldCheck struct {
	field      string
	constraint string
	value      any
	ok         bool
}

func validateRequest(r IntegralRequest) error {
	checks := []fieldCheck{
		{"units", "one of Angstrom, Bohr", r.Units, r.Units.Valid()},
		{"basis", "one of sto3g, 6-31g, 6-31g**", r.Basis, r.Basis.Valid()},
		{"hf_method", "one of rhf, rohf, uhf", r.HFMethod, r.HFMethod.Valid()},
		{"tol", "a positive finite number", r.Tol, r.Tol > 0 && !math.IsInf(r.Tol, 1)},
		{"maxiters", ">= 1", r.MaxIters, r.MaxIters >= 1},
	}
	for _, c := range checks {
		if !c.ok {
			return &ConfigError{Driver: PyQuanteDriverName, Field: c.field, Constraint: c.constraint, Value: c.value}
		}
	}
	return nil
}

func (d *PyQuanteDriver) Name() string { return PyQuanteDriverName }

// Config returns the validated configuration.
func (d *PyQuanteDriver) Config() IntegralRequest { return d.req }

// Run delegates to the integral computer and stamps provenance on the
// result. Computer errors are returned as is.
func (d *PyQuanteDriver) Run(ctx context.Context) (*molecule.QMolecule, error) {
	m, err := d.computer.Compute(ctx, d.req)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("PYQUANTE driver: integral computer returned no molecule")
	}
	m.OriginDriverName = PyQuanteDriverName
	m.OriginDriverConfig = d.provenance()
	return m, nil
}

// provenance lists every field as name=value, one per line, in declaration
// order, ending with a blank line.
func (d *PyQuanteDriver) provenance() string {
	r := d.req
	lines := []string{
		"atoms=" + r.Atoms,
		"units=" + string(r.Units),
		"charge=" + strconv.Itoa(r.Charge),
		"multiplicity=" + strconv.Itoa(r.Multiplicity),
		"basis=" + string(r.Basis),
		"hf_method=" + string(r.HFMethod),
		"tol=" + formatPyFloat(r.Tol),
		"maxiters=" + strconv.Itoa(r.MaxIters),
		"",
	}
	return strings.Join(lines, "\n")
}

// formatPyFloat renders f the way Python's str() does: positional between
// 1e-4 and 1e16 with at least one fractional digit, exponent form outside.
func formatPyFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		switch {
		case math.IsNaN(f):
			return "nan"
		case f > 0:
			return "inf"
		default:
			return "-inf"
		}
	}
	abs := math.Abs(f)
	if f != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
