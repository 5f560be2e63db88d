package drivers

import (
	"errors"
	"fmt"

	"qchemd/internal/molecule"
)

// ConfigError reports the first invalid field of a driver configuration.
type ConfigError struct {
	Driver     string
	Field      string
	Constraint string
	Value      any
	msg        string
}

func (e *ConfigError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("%s driver: invalid %s %v: must be %s", e.Driver, e.Field, e.Value, e.Constraint)
}

// IsConfigError reports whether err is a configuration error. A missing
// external dependency counts as one.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) || IsDependencyUnavailable(err)
}

// lookupError signals that a referenced file does not exist.
type lookupError struct{ path string }

func (e lookupError) Error() string { return "HDF5 file not found: " + e.path }

// ErrLookup constructs a lookupError for path.
func ErrLookup(path string) error { return lookupError{path: path} }

// IsLookup reports whether err indicates a missing input file.
func IsLookup(err error) bool {
	var le lookupError
	return errors.As(err, &le)
}

// dependencyUnavailableError signals a missing external package (e.g.
// PyQuante2) so callers can tell it apart from bad input.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime
// dependency, including HDF5 support compiled out of the binary.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de) || errors.Is(err, molecule.ErrHDF5Unavailable)
}

type unknownDriverError struct{ name string }

func (e unknownDriverError) Error() string { return "unknown driver: " + e.name }

// ErrUnknownDriver returns an error for a name missing from the registry.
func ErrUnknownDriver(name string) error { return unknownDriverError{name: name} }

// IsUnknownDriver reports whether err indicates an unregistered driver name.
func IsUnknownDriver(err error) bool {
	var ue unknownDriverError
	return errors.As(err, &ue)
}
