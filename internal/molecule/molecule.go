// Package molecule holds QMolecule, the shared result object every driver
// populates: geometry, Hartree-Fock energies, orbital data, one- and
// two-electron integrals, and the provenance stamp of the producing driver.
//
// Persistence uses HDF5 through gonum.org/v1/hdf5, which needs cgo and the
// HDF5 C library. Build with `-tags=hdf5` to enable it; without the tag Load
// and Save return ErrHDF5Unavailable.
package molecule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHDF5Unavailable is returned by Load and Save when the binary was built
// without HDF5 support.
var ErrHDF5Unavailable = errors.New("HDF5 support not compiled in (rebuild with -tags=hdf5)")

// QMolecule carries the electronic-structure data produced by a driver.
// Integral matrices are in the molecular-orbital basis unless noted.
type QMolecule struct {
	filename string

	OriginDriverName   string `json:"origin_driver_name" yaml:"origin_driver_name"`
	OriginDriverConfig string `json:"origin_driver_config" yaml:"origin_driver_config"`

	HFEnergy               float64 `json:"hf_energy" yaml:"hf_energy"`
	NuclearRepulsionEnergy float64 `json:"nuclear_repulsion_energy" yaml:"nuclear_repulsion_energy"`

	MolecularCharge int `json:"molecular_charge" yaml:"molecular_charge"`
	Multiplicity    int `json:"multiplicity" yaml:"multiplicity"`
	NumAlpha        int `json:"num_alpha" yaml:"num_alpha"`
	NumBeta         int `json:"num_beta" yaml:"num_beta"`

	NumOrbitals     int         `json:"num_orbitals" yaml:"num_orbitals"`
	OrbitalEnergies []float64   `json:"orbital_energies,omitempty" yaml:"orbital_energies,omitempty"`
	MOCoeff         [][]float64 `json:"mo_coeff,omitempty" yaml:"mo_coeff,omitempty"`

	NumAtoms   int         `json:"num_atoms" yaml:"num_atoms"`
	AtomSymbol []string    `json:"atom_symbol,omitempty" yaml:"atom_symbol,omitempty"`
	AtomXYZ    [][]float64 `json:"atom_xyz,omitempty" yaml:"atom_xyz,omitempty"` // bohr

	// HCore is the core Hamiltonian in the atomic-orbital basis.
	HCore      [][]float64 `json:"hcore,omitempty" yaml:"hcore,omitempty"`
	MOOneEInts [][]float64 `json:"mo_onee_ints,omitempty" yaml:"mo_onee_ints,omitempty"`
	// MOEriInts is the (ij|kl) tensor flattened row-major, NumOrbitals^4 long.
	MOEriInts []float64 `json:"mo_eri_ints,omitempty" yaml:"mo_eri_ints,omitempty"`
}

// New returns an empty molecule bound to filename. Nothing is read until
// Load is called.
func New(filename string) *QMolecule {
	return &QMolecule{filename: filename}
}

// Filename is the HDF5 file the molecule was created for.
func (m *QMolecule) Filename() string { return m.filename }

// Load populates the molecule from its HDF5 file.
func (m *QMolecule) Load() error {
	if m.filename == "" {
		return errors.New("molecule: no filename to load from")
	}
	return m.loadHDF5(m.filename)
}

// Save writes the molecule to path, or to its own filename when path is
// empty. Molecules that fail Validate are not written.
func (m *QMolecule) Save(path string) error {
	if path == "" {
		path = m.filename
	}
	if path == "" {
		return errors.New("molecule: no filename to save to")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return m.saveHDF5(path)
}

// Validate checks that array dimensions agree with the declared counts.
func (m *QMolecule) Validate() error {
	if len(m.AtomSymbol) != 0 && len(m.AtomSymbol) != m.NumAtoms {
		return fmt.Errorf("molecule: %d atom symbols for %d atoms", len(m.AtomSymbol), m.NumAtoms)
	}
	if len(m.AtomXYZ) != 0 && len(m.AtomXYZ) != m.NumAtoms {
		return fmt.Errorf("molecule: %d coordinates for %d atoms", len(m.AtomXYZ), m.NumAtoms)
	}
	for i, xyz := range m.AtomXYZ {
		if len(xyz) != 3 {
			return fmt.Errorf("molecule: atom %d has %d coordinates", i, len(xyz))
		}
	}
	n := m.NumOrbitals
	if len(m.OrbitalEnergies) != 0 && len(m.OrbitalEnergies) != n {
		return fmt.Errorf("molecule: %d orbital energies for %d orbitals", len(m.OrbitalEnergies), n)
	}
	if err := checkSquare("mo_onee_ints", m.MOOneEInts, n); err != nil {
		return err
	}
	if err := checkSquare("mo_coeff", m.MOCoeff, n); err != nil {
		return err
	}
	if len(m.MOEriInts) != 0 && len(m.MOEriInts) != n*n*n*n {
		return fmt.Errorf("molecule: mo_eri_ints has %d entries, want %d", len(m.MOEriInts), n*n*n*n)
	}
	return nil
}

func checkSquare(name string, a [][]float64, n int) error {
	if len(a) == 0 {
		return nil
	}
	if len(a) != n {
		return fmt.Errorf("molecule: %s has %d rows, want %d", name, len(a), n)
	}
	for i, row := range a {
		if len(row) != n {
			return fmt.Errorf("molecule: %s row %d has %d columns, want %d", name, i, len(row), n)
		}
	}
	return nil
}

// Summary returns a short human-readable description, one item per line.
func (m *QMolecule) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "driver: %s\n", m.OriginDriverName)
	fmt.Fprintf(&b, "atoms: %d (%s)\n", m.NumAtoms, strings.Join(m.AtomSymbol, " "))
	fmt.Fprintf(&b, "charge: %d multiplicity: %d\n", m.MolecularCharge, m.Multiplicity)
	fmt.Fprintf(&b, "orbitals: %d alpha: %d beta: %d\n", m.NumOrbitals, m.NumAlpha, m.NumBeta)
	fmt.Fprintf(&b, "hf energy: %.12f\n", m.HFEnergy)
	fmt.Fprintf(&b, "nuclear repulsion: %.12f\n", m.NuclearRepulsionEnergy)
	return b.String()
}
