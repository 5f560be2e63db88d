package drivers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"qchemd/internal/molecule"
)

func TestHDF5DefaultInput(t *testing.T) {
	d := NewHDF5Driver("")
	if d.Input() != "molecule.hdf5" || d.Name() != "HDF5" {
		t.Fatalf("input=%q name=%q", d.Input(), d.Name())
	}
}

func TestHDF5ResolvedPath(t *testing.T) {
	d := NewHDF5Driver("h2.hdf5")
	if p, _ := d.ResolvedPath(); p != "h2.hdf5" {
		t.Fatalf("no work path should leave input as is, got %q", p)
	}
	d.SetWorkPath("/data/mol")
	if p, _ := d.ResolvedPath(); p != "/data/mol/h2.hdf5" {
		t.Fatalf("got %q", p)
	}
	abs := NewHDF5Driver("/abs/h2.hdf5")
	abs.SetWorkPath("/data/mol")
	if p, _ := abs.ResolvedPath(); p != "/abs/h2.hdf5" {
		t.Fatalf("absolute input changed to %q", p)
	}
}

func TestHDF5MissingFile(t *testing.T) {
	dir := t.TempDir()
	d := NewHDF5Driver("missing.hdf5")
	d.SetWorkPath(dir)
	_, err := d.Run(context.Background())
	if !IsLookup(err) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	want := "HDF5 file not found: " + filepath.Join(dir, "missing.hdf5")
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestHDF5MissingFileWithoutWorkPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.hdf5")
	d := NewHDF5Driver(path)
	_, err := d.Run(context.Background())
	if !IsLookup(err) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if want := "HDF5 file not found: " + path; err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestHDF5MissingAbsoluteFileIgnoresWorkPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.hdf5")
	d := NewHDF5Driver(path)
	d.SetWorkPath(t.TempDir())
	_, err := d.Run(context.Background())
	if !IsLookup(err) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if want := "HDF5 file not found: " + path; err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestHDF5DirectoryIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub.hdf5"), 0o755); err != nil {
		t.Fatal(err)
	}
	d := NewHDF5Driver("sub.hdf5")
	d.SetWorkPath(dir)
	if _, err := d.Run(context.Background()); !IsLookup(err) {
		t.Fatalf("expected lookup error for directory, got %v", err)
	}
}

func TestHDF5RunLoadsResolvedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "h2.hdf5")
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := NewHDF5Driver("h2.hdf5")
	d.SetWorkPath(dir)
	var loaded string
	d.load = func(m *molecule.QMolecule) error {
		loaded = m.Filename()
		m.HFEnergy = -1.1
		return nil
	}
	m, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if loaded != path || m.Filename() != path || m.HFEnergy != -1.1 {
		t.Fatalf("loaded=%q filename=%q energy=%v", loaded, m.Filename(), m.HFEnergy)
	}
}

func TestHDF5LoadErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.hdf5"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	d := NewHDF5Driver(filepath.Join(dir, "x.hdf5"))
	d.load = func(*molecule.QMolecule) error { return molecule.ErrHDF5Unavailable }
	_, err := d.Run(context.Background())
	if !errors.Is(err, molecule.ErrHDF5Unavailable) || !IsDependencyUnavailable(err) {
		t.Fatalf("expected HDF5 unavailable, got %v", err)
	}
}

func TestHDF5RunHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHDF5Driver("").Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
