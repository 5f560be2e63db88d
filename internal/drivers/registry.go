package drivers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"qchemd/internal/common/fsutil"
	"qchemd/internal/molecule"
	"qchemd/pkg/types"
)

// Factory builds a driver from options that already passed schema
// validation. opts holds JSON-decoded values.
type Factory func(ctx context.Context, opts map[string]any) (Driver, error)

type registration struct {
	name    string
	options []OptionSpec
	factory Factory
}

// RegistryConfig carries the settings shared by the built-in drivers.
type RegistryConfig struct {
	// WorkDir is the work path of every HDF5 driver built by the registry.
	WorkDir string
	// Python is the interpreter for the default PyQuante2 computer.
	Python string
	// Computer replaces the PyQuante2 subprocess computer when set.
	Computer IntegralComputer
	// ConfineToWorkDir rejects HDF5 inputs that are absolute or resolve
	// outside WorkDir. An empty WorkDir means the current directory.
	ConfineToWorkDir bool
}

// Registry maps case-insensitive driver names to factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
	cfg     RegistryConfig
}

// NewRegistry returns a registry holding the HDF5 and PYQUANTE drivers.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Computer == nil {
		cfg.Computer = NewPyQuante2(cfg.Python)
	}
	r := &Registry{entries: map[string]registration{}, cfg: cfg}
	r.Register(HDF5DriverName, hdf5Options(), r.newHDF5)
	r.Register(PyQuanteDriverName, pyquanteOptions(), r.newPyQuante)
	return r
}

// Register adds or replaces a driver. Names are matched case-insensitively.
func (r *Registry) Register(name string, options []OptionSpec, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[strings.ToUpper(name)] = registration{name: name, options: options, factory: f}
}

func (r *Registry) lookup(name string) (registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return registration{}, ErrUnknownDriver(name)
	}
	return reg, nil
}

// Names lists registered driver names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for _, reg := range r.entries {
		names = append(names, reg.name)
	}
	sort.Strings(names)
	return names
}

// Drivers describes every registered driver, sorted by name.
func (r *Registry) Drivers() []types.DriverInfo {
	var out []types.DriverInfo
	for _, name := range r.Names() {
		reg, err := r.lookup(name)
		if err != nil {
			continue
		}
		info := types.DriverInfo{Name: reg.name, Options: make([]string, len(reg.options))}
		for i, o := range reg.options {
			info.Options[i] = o.Name
		}
		out = append(out, info)
	}
	return out
}

// Schema returns the JSON schema of a driver's option document.
func (r *Registry) Schema(name string) (*openapi3.Schema, error) {
	reg, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return objectSchema(reg.options), nil
}

// New validates opts against the driver's schema and constructs it. opts
// may come from JSON, YAML or TOML; values are normalized through JSON
// first.
func (r *Registry) New(ctx context.Context, name string, opts map[string]any) (Driver, error) {
	reg, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	norm, err := normalizeOptions(opts)
	if err != nil {
		return nil, &ConfigError{Driver: reg.name, Field: "options", Constraint: "a JSON object", msg: fmt.Sprintf("%s driver: options: %v", reg.name, err)}
	}
	if err := validateOptions(reg.name, reg.options, norm); err != nil {
		return nil, err
	}
	d, err := reg.factory(ctx, norm)
	if err != nil {
		return nil, asConfigError(reg.name, err)
	}
	return d, nil
}

// asConfigError turns an option decoding failure into a *ConfigError. Other
// errors are returned as is.
func asConfigError(driver string, err error) error {
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) {
		return err
	}
	return &ConfigError{
		Driver:     driver,
		Field:      ute.Field,
		Constraint: "a value of Go type " + ute.Type.String(),
		Value:      ute.Value,
		msg:        fmt.Sprintf("%s driver: invalid %s: %v", driver, ute.Field, err),
	}
}

// Run constructs the named driver and runs it, recording the outcome in
// the driver metrics.
func (r *Registry) Run(ctx context.Context, name string, opts map[string]any) (*molecule.QMolecule, error) {
	start := time.Now()
	label := strings.ToUpper(strings.TrimSpace(name))
	m, err := r.run(ctx, name, opts)
	status := statusLabel(err)
	if !IsUnknownDriver(err) {
		driverRunsTotal.WithLabelValues(label, status).Inc()
		driverRunDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}
	ev := logger().Info()
	if err != nil {
		ev = logger().Warn().Err(err)
	}
	ev.Str("driver", label).Str("status", status).Dur("elapsed", time.Since(start)).Msg("driver run")
	return m, err
}

func (r *Registry) run(ctx context.Context, name string, opts map[string]any) (*molecule.QMolecule, error) {
	d, err := r.New(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx)
}

func normalizeOptions(opts map[string]any) (map[string]any, error) {
	if len(opts) == 0 {
		return map[string]any{}, nil
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeOptions maps normalized options onto a typed struct.
func decodeOptions(opts map[string]any, dst any) error {
	b, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

type hdf5OptionValues struct {
	HDF5Input string `json:"hdf5_input"`
}

func (r *Registry) newHDF5(_ context.Context, opts map[string]any) (Driver, error) {
	var v hdf5OptionValues
	if err := decodeOptions(opts, &v); err != nil {
		return nil, err
	}
	d := NewHDF5Driver(v.HDF5Input)
	d.SetWorkPath(r.cfg.WorkDir)
	if r.cfg.ConfineToWorkDir {
		if err := confineInput(r.cfg.WorkDir, d.Input()); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// confineInput fails with a *ConfigError unless input is a relative path
// that stays inside workDir. The check is lexical.
func confineInput(workDir, input string) error {
	bad := &ConfigError{
		Driver:     HDF5DriverName,
		Field:      "hdf5_input",
		Constraint: "a path relative to the work directory",
		Value:      input,
	}
	if filepath.IsAbs(input) || filepath.VolumeName(input) != "" {
		return bad
	}
	if workDir == "" {
		workDir = "."
	}
	base, err := fsutil.ResolvePath(workDir, ".")
	if err != nil {
		return err
	}
	path, err := fsutil.ResolvePath(workDir, input)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return bad
	}
	return nil
}

type pyquanteOptionValues struct {
	Atoms        any           `json:"atoms"`
	Units        *Units        `json:"units"`
	Charge       *int          `json:"charge"`
	Multiplicity *int          `json:"multiplicity"`
	Basis        *BasisType    `json:"basis"`
	HFMethod     *HFMethodType `json:"hf_method"`
	Tol          *float64      `json:"tol"`
	MaxIters     *int          `json:"maxiters"`
}

func (r *Registry) newPyQuante(ctx context.Context, opts map[string]any) (Driver, error) {
	var v pyquanteOptionValues
	if err := decodeOptions(opts, &v); err != nil {
		return nil, err
	}
	o := []PyQuanteOption{WithIntegralComputer(r.cfg.Computer)}
	if v.Units != nil {
		o = append(o, WithUnits(*v.Units))
	}
	if v.Charge != nil {
		o = append(o, WithCharge(*v.Charge))
	}
	if v.Multiplicity != nil {
		o = append(o, WithMultiplicity(*v.Multiplicity))
	}
	if v.Basis != nil {
		o = append(o, WithBasis(*v.Basis))
	}
	if v.HFMethod != nil {
		o = append(o, WithHFMethod(*v.HFMethod))
	}
	if v.Tol != nil {
		o = append(o, WithTolerance(*v.Tol))
	}
	if v.MaxIters != nil {
		o = append(o, WithMaxIterations(*v.MaxIters))
	}
	atoms := v.Atoms
	if atoms == nil {
		atoms = DefaultAtoms
	}
	return NewPyQuanteDriverContext(ctx, atoms, o...)
}
