package drivers

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OptionSpec is one named driver option and the JSON schema its value must
// satisfy.
type OptionSpec struct {
	Name   string
	Schema *openapi3.Schema
}

func hdf5Options() []OptionSpec {
	return []OptionSpec{
		{"hdf5_input", openapi3.NewStringSchema().
			WithDefault(DefaultHDF5Input).
			WithMinLength(1)},
	}
}

func pyquanteOptions() []OptionSpec {
	atoms := openapi3.NewOneOfSchema(
		openapi3.NewStringSchema(),
		openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()),
	).WithDefault(DefaultAtoms)
	return []OptionSpec{
		{"atoms", atoms},
		{"units", openapi3.NewStringSchema().
			WithEnum(string(UnitsAngstrom), string(UnitsBohr)).
			WithDefault(string(UnitsAngstrom))},
		{"charge", int32Schema().WithDefault(0)},
		{"multiplicity", int32Schema().WithDefault(1)},
		{"basis", openapi3.NewStringSchema().
			WithEnum(string(BasisSTO3G), string(Basis631G), string(Basis631GSS)).
			WithDefault(string(BasisSTO3G))},
		{"hf_method", openapi3.NewStringSchema().
			WithEnum(string(HFMethodRHF), string(HFMethodROHF), string(HFMethodUHF)).
			WithDefault(string(HFMethodRHF))},
		{"tol", openapi3.NewFloat64Schema().
			WithMin(0).WithExclusiveMin(true).
			WithDefault(defaultTol)},
		{"maxiters", int32Schema().
			WithMin(1).
			WithDefault(defaultMaxIters)},
	}
}

// int32Schema is an integer schema bounded to the int32 range, so every
// accepted value decodes into a Go int.
func int32Schema() *openapi3.Schema {
	return openapi3.NewIntegerSchema().WithMin(math.MinInt32).WithMax(math.MaxInt32)
}

// objectSchema assembles specs into a closed object schema.
func objectSchema(specs []OptionSpec) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	for _, o := range specs {
		s.WithProperty(o.Name, o.Schema)
	}
	return s
}

// validateOptions checks raw against specs in declaration order and then
// rejects unknown keys. raw must hold JSON-decoded values.
func validateOptions(driver string, specs []OptionSpec, raw map[string]any) error {
	known := make(map[string]bool, len(specs))
	for _, o := range specs {
		known[o.Name] = true
		v, ok := raw[o.Name]
		if !ok {
			continue
		}
		if err := o.Schema.VisitJSON(v); err != nil {
			return schemaConfigError(driver, o, v, err)
		}
	}
	var unknown []string
	for k := range raw {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		names := make([]string, len(specs))
		for i, o := range specs {
			names[i] = o.Name
		}
		return &ConfigError{
			Driver:     driver,
			Field:      strings.Join(unknown, ","),
			Constraint: "one of " + strings.Join(names, ", "),
			msg:        fmt.Sprintf("%s driver: unknown option %s: allowed options are %s", driver, strings.Join(unknown, ", "), strings.Join(names, ", ")),
		}
	}
	return nil
}

func schemaConfigError(driver string, o OptionSpec, v any, err error) error {
	ce := &ConfigError{Driver: driver, Field: o.Name, Value: v, Constraint: "valid"}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if p := se.JSONPointer(); len(p) > 0 {
			ce.Field = o.Name + "/" + strings.Join(p, "/")
		}
		if r := strings.TrimPrefix(se.Reason, "value must be "); r != "" {
			ce.Constraint = r
		}
		if len(o.Schema.Enum) > 0 {
			ce.Constraint = "one of " + enumList(o.Schema.Enum)
		}
	}
	if driver == PyQuanteDriverName && o.Name == "atoms" {
		ce.msg = fmt.Sprintf("Invalid atom input for PYQUANTE Driver '%v'", v)
	}
	return ce
}

func enumList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
