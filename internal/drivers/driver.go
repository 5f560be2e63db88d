// Package drivers turns a driver configuration into a populated
// molecule.QMolecule. Each driver is constructed once with a validated
// configuration and run once; drivers are not safe for concurrent use.
//
// Files by concern:
//
//   - driver.go: Driver interface and package logger.
//   - errors.go: error kinds and IsX predicates.
//   - hdf5.go: HDF5Driver, which loads a molecule saved earlier.
//   - pyquante.go: PyQuanteDriver and its enumerated settings.
//   - pyquante_compute.go: the PyQuante2 subprocess integral computer.
//   - schema.go: declarative option schemas (kin-openapi).
//   - registry.go: name-based driver construction from option documents.
//   - metrics.go: prometheus counters for driver runs.
package drivers

import (
	"context"

	"github.com/rs/zerolog"

	"qchemd/internal/molecule"
)

// Driver produces a molecule from its configuration.
type Driver interface {
	// Name is the registry name of the driver, e.g. "PYQUANTE".
	Name() string
	// Run blocks until the molecule is produced or an error occurs. The
	// returned molecule is owned by the caller.
	Run(ctx context.Context) (*molecule.QMolecule, error)
}

// zlog is an optional structured logger. If unset, logging is discarded.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by drivers and the registry.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logger() *zerolog.Logger {
	if zlog == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return zlog
}
