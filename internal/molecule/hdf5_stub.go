//go:build !hdf5

package molecule

func (m *QMolecule) loadHDF5(string) error { return ErrHDF5Unavailable }

func (m *QMolecule) saveHDF5(string) error { return ErrHDF5Unavailable }
