package drivers

import (
	"context"

	"qchemd/internal/common/fsutil"
	"qchemd/internal/molecule"
)

const (
	// HDF5DriverName is the registry name of HDF5Driver.
	HDF5DriverName = "HDF5"
	// DefaultHDF5Input is used when no input file is configured.
	DefaultHDF5Input = "molecule.hdf5"
)

// HDF5Driver loads a molecule previously saved to an HDF5 file. The file
// layout belongs to molecule.QMolecule; the driver only resolves the path
// and checks that it exists.
type HDF5Driver struct {
	input    string
	workPath string
	load     func(*molecule.QMolecule) error
}

var _ Driver = (*HDF5Driver)(nil)

// NewHDF5Driver returns a driver for input. An empty input means
// DefaultHDF5Input.
func NewHDF5Driver(input string) *HDF5Driver {
	if input == "" {
		input = DefaultHDF5Input
	}
	return &HDF5Driver{input: input, load: (*molecule.QMolecule).Load}
}

func (d *HDF5Driver) Name() string { return HDF5DriverName }

// Input is the configured path, before work-path resolution.
func (d *HDF5Driver) Input() string { return d.input }

// WorkPath is the directory relative inputs are resolved against.
func (d *HDF5Driver) WorkPath() string { return d.workPath }

// SetWorkPath sets the directory relative inputs are resolved against.
func (d *HDF5Driver) SetWorkPath(p string) { d.workPath = p }

// ResolvedPath joins a relative input onto the work path. Absolute inputs,
// or any input when no work path is set, are returned as configured.
func (d *HDF5Driver) ResolvedPath() (string, error) {
	return fsutil.ResolvePath(d.workPath, d.input)
}

// Run loads the molecule. It fails with a lookup error, before reading
// anything, when the resolved path is not a regular file.
func (d *HDF5Driver) Run(ctx context.Context) (*molecule.QMolecule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.ResolvedPath()
	if err != nil {
		return nil, err
	}
	if !fsutil.IsRegularFile(path) {
		return nil, ErrLookup(path)
	}
	logger().Debug().Str("driver", HDF5DriverName).Str("path", path).Msg("loading molecule")
	m := molecule.New(path)
	if err := d.load(m); err != nil {
		return nil, err
	}
	return m, nil
}
