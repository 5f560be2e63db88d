//go:build hdf5

package molecule

import (
	"fmt"
	"strings"

	"gonum.org/v1/hdf5"
)

// File layout. Charge and multiplicity live under geometry, electron
// counts under orbitals. Scalars are stored as one-element datasets, strings as
// uint8 datasets, matrices as 2-D datasets.
const (
	groupOrigin    = "origin_driver"
	groupEnergy    = "energy"
	groupOrbitals  = "orbitals"
	groupGeometry  = "geometry"
	groupIntegrals = "integrals"
)

func (m *QMolecule) loadHDF5(path string) error {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := &h5reader{f: f}
	m.OriginDriverName = r.str(groupOrigin, "name")
	m.OriginDriverConfig = r.str(groupOrigin, "config")

	m.HFEnergy = r.scalar(groupEnergy, "hf_energy")
	m.NuclearRepulsionEnergy = r.scalar(groupEnergy, "nuclear_repulsion_energy")

	m.MolecularCharge = r.integer(groupGeometry, "molecular_charge")
	m.Multiplicity = r.integer(groupGeometry, "multiplicity")
	m.NumAlpha = r.integer(groupOrbitals, "num_alpha")
	m.NumBeta = r.integer(groupOrbitals, "num_beta")

	m.NumOrbitals = r.integer(groupOrbitals, "num_orbitals")
	m.OrbitalEnergies = r.vector(groupOrbitals, "orbital_energies")
	m.MOCoeff = r.matrix(groupOrbitals, "mo_coeff")

	m.NumAtoms = r.integer(groupGeometry, "num_atoms")
	if s := r.str(groupGeometry, "atom_symbol"); s != "" {
		m.AtomSymbol = strings.Split(s, "\n")
	}
	m.AtomXYZ = r.matrix(groupGeometry, "atom_xyz")

	m.HCore = r.matrix(groupIntegrals, "hcore")
	m.MOOneEInts = r.matrix(groupIntegrals, "mo_onee_ints")
	m.MOEriInts = r.vector(groupIntegrals, "mo_eri_ints")
	if r.err != nil {
		return fmt.Errorf("read %s: %w", path, r.err)
	}
	return nil
}

func (m *QMolecule) saveHDF5(path string) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := &h5writer{f: f, groups: map[string]*hdf5.Group{}}
	defer w.close()

	w.str(groupOrigin, "name", m.OriginDriverName)
	w.str(groupOrigin, "config", m.OriginDriverConfig)

	w.scalar(groupEnergy, "hf_energy", m.HFEnergy)
	w.scalar(groupEnergy, "nuclear_repulsion_energy", m.NuclearRepulsionEnergy)

	w.integer(groupGeometry, "molecular_charge", m.MolecularCharge)
	w.integer(groupGeometry, "multiplicity", m.Multiplicity)
	w.integer(groupOrbitals, "num_alpha", m.NumAlpha)
	w.integer(groupOrbitals, "num_beta", m.NumBeta)

	w.integer(groupOrbitals, "num_orbitals", m.NumOrbitals)
	w.vector(groupOrbitals, "orbital_energies", m.OrbitalEnergies)
	w.matrix(groupOrbitals, "mo_coeff", m.MOCoeff)

	w.integer(groupGeometry, "num_atoms", m.NumAtoms)
	w.str(groupGeometry, "atom_symbol", strings.Join(m.AtomSymbol, "\n"))
	w.matrix(groupGeometry, "atom_xyz", m.AtomXYZ)

	w.matrix(groupIntegrals, "hcore", m.HCore)
	w.matrix(groupIntegrals, "mo_onee_ints", m.MOOneEInts)
	w.vector(groupIntegrals, "mo_eri_ints", m.MOEriInts)
	if w.err != nil {
		return fmt.Errorf("write %s: %w", path, w.err)
	}
	return nil
}

// h5reader keeps the first error and turns later reads into no-ops.
// Missing datasets read as zero values.
type h5reader struct {
	f   *hdf5.File
	err error
}

func (r *h5reader) open(group, name string) (*hdf5.Dataset, []uint, bool) {
	if r.err != nil || !r.f.LinkExists(group) {
		return nil, nil, false
	}
	g, err := r.f.OpenGroup(group)
	if err != nil {
		r.err = err
		return nil, nil, false
	}
	defer g.Close()
	if !g.LinkExists(name) {
		return nil, nil, false
	}
	ds, err := g.OpenDataset(name)
	if err != nil {
		r.err = fmt.Errorf("%s/%s: %w", group, name, err)
		return nil, nil, false
	}
	space := ds.Space()
	dims, _, err := space.SimpleExtentDims()
	space.Close()
	if err != nil {
		ds.Close()
		r.err = fmt.Errorf("%s/%s: %w", group, name, err)
		return nil, nil, false
	}
	return ds, dims, true
}

func (r *h5reader) read(group, name string, ds *hdf5.Dataset, dst interface{}) {
	defer ds.Close()
	if err := ds.Read(dst); err != nil {
		r.err = fmt.Errorf("%s/%s: %w", group, name, err)
	}
}

func size(dims []uint) int {
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return n
}

func (r *h5reader) str(group, name string) string {
	ds, dims, ok := r.open(group, name)
	if !ok {
		return ""
	}
	buf := make([]uint8, size(dims))
	r.read(group, name, ds, &buf)
	return string(buf)
}

func (r *h5reader) integer(group, name string) int {
	ds, _, ok := r.open(group, name)
	if !ok {
		return 0
	}
	buf := make([]int64, 1)
	r.read(group, name, ds, &buf)
	return int(buf[0])
}

func (r *h5reader) scalar(group, name string) float64 {
	ds, _, ok := r.open(group, name)
	if !ok {
		return 0
	}
	buf := make([]float64, 1)
	r.read(group, name, ds, &buf)
	return buf[0]
}

func (r *h5reader) vector(group, name string) []float64 {
	ds, dims, ok := r.open(group, name)
	if !ok {
		return nil
	}
	buf := make([]float64, size(dims))
	r.read(group, name, ds, &buf)
	return buf
}

func (r *h5reader) matrix(group, name string) [][]float64 {
	ds, dims, ok := r.open(group, name)
	if !ok {
		return nil
	}
	if len(dims) != 2 {
		ds.Close()
		r.err = fmt.Errorf("%s/%s: expected 2-D dataset, got %d dims", group, name, len(dims))
		return nil
	}
	flat := make([]float64, size(dims))
	r.read(group, name, ds, &flat)
	rows, cols := int(dims[0]), int(dims[1])
	out := make([][]float64, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols]
	}
	return out
}

type h5writer struct {
	f      *hdf5.File
	groups map[string]*hdf5.Group
	err    error
}

func (w *h5writer) group(name string) *hdf5.Group {
	if g, ok := w.groups[name]; ok {
		return g
	}
	g, err := w.f.CreateGroup(name)
	if err != nil {
		w.err = fmt.Errorf("group %s: %w", name, err)
		return nil
	}
	w.groups[name] = g
	return g
}

func (w *h5writer) close() {
	for _, g := range w.groups {
		g.Close()
	}
}

func (w *h5writer) write(group, name string, dtype *hdf5.Datatype, dims []uint, data interface{}) {
	if w.err != nil {
		return
	}
	g := w.group(group)
	if g == nil {
		return
	}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		w.err = fmt.Errorf("%s/%s: %w", group, name, err)
		return
	}
	defer space.Close()
	ds, err := g.CreateDataset(name, dtype, space)
	if err != nil {
		w.err = fmt.Errorf("%s/%s: %w", group, name, err)
		return
	}
	defer ds.Close()
	if err := ds.Write(data); err != nil {
		w.err = fmt.Errorf("%s/%s: %w", group, name, err)
	}
}

func (w *h5writer) str(group, name, s string) {
	if s == "" {
		return
	}
	buf := []uint8(s)
	w.write(group, name, hdf5.T_NATIVE_UINT8, []uint{uint(len(buf))}, &buf)
}

func (w *h5writer) integer(group, name string, v int) {
	buf := []int64{int64(v)}
	w.write(group, name, hdf5.T_NATIVE_INT64, []uint{1}, &buf)
}

func (w *h5writer) scalar(group, name string, v float64) {
	buf := []float64{v}
	w.write(group, name, hdf5.T_NATIVE_DOUBLE, []uint{1}, &buf)
}

func (w *h5writer) vector(group, name string, v []float64) {
	if len(v) == 0 {
		return
	}
	w.write(group, name, hdf5.T_NATIVE_DOUBLE, []uint{uint(len(v))}, &v)
}

func (w *h5writer) matrix(group, name string, a [][]float64) {
	if len(a) == 0 {
		return
	}
	cols := len(a[0])
	flat := make([]float64, 0, len(a)*cols)
	for i, row := range a {
		if len(row) != cols {
			w.err = fmt.Errorf("%s/%s: ragged row %d", group, name, i)
			return
		}
		flat = append(flat, row...)
	}
	w.write(group, name, hdf5.T_NATIVE_DOUBLE, []uint{uint(len(a)), uint(cols)}, &flat)
}
