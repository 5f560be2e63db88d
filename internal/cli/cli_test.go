package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qchemd/internal/config"
	"qchemd/internal/drivers"
)

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// fakePython writes an interpreter stub that answers every invocation with
// a fixed molecule.
func fakePython(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("interpreter stub needs a POSIX shell")
	}
	p := filepath.Join(t.TempDir(), "python")
	script := "#!/bin/sh\ncat >/dev/null\necho '{\"hf_energy\":-1.117,\"num_orbitals\":2,\"num_alpha\":1,\"num_beta\":1,\"multiplicity\":1}'\n"
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, splitCSV(c.in)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestRunPyQuanteWithFakeInterpreter(t *testing.T) {
	py := fakePython(t)
	out, err := execute(t, "run", "pyquante", "--python", py, "--atoms", "H 0 0 0;H 0 0 0.74", "--basis", "6-31g")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got struct {
		Summary  string `json:"summary"`
		Molecule struct {
			OriginDriverName   string  `json:"origin_driver_name"`
			OriginDriverConfig string  `json:"origin_driver_config"`
			HFEnergy           float64 `json:"hf_energy"`
		} `json:"molecule"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("json: %v\n%s", err, out)
	}
	if got.Molecule.OriginDriverName != "PYQUANTE" || got.Molecule.HFEnergy != -1.117 {
		t.Fatalf("unexpected output %+v", got)
	}
	if !strings.HasPrefix(got.Molecule.OriginDriverConfig, "atoms=H 0 0 0;H 0 0 0.74\nunits=Angstrom\n") ||
		!strings.Contains(got.Molecule.OriginDriverConfig, "basis=6-31g\n") {
		t.Fatalf("provenance:\n%s", got.Molecule.OriginDriverConfig)
	}
}

func TestRunPyQuanteRejectsBadBasis(t *testing.T) {
	py := fakePython(t)
	_, err := execute(t, "run", "pyquante", "--python", py, "--basis", "cc-pvdz")
	if !drivers.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRunPyQuanteMissingDependency(t *testing.T) {
	_, err := execute(t, "run", "pyquante", "--python", filepath.Join(t.TempDir(), "nope"))
	if !drivers.IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRunHDF5MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "hdf5", "--work-dir", dir, "--input", "h2.hdf5")
	if !drivers.IsLookup(err) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(dir, "h2.hdf5")) {
		t.Fatalf("error should name the resolved path: %v", err)
	}
}

func TestRunFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	cfg := config.Config{WorkDir: dir, Driver: config.DriverSpec{Name: "hdf5", Options: map[string]any{"hdf5_input": "absent.hdf5"}}}
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "run", "--config", path); !drivers.IsLookup(err) {
		t.Fatalf("expected lookup error from config run, got %v", err)
	}
	if _, err := execute(t, "run"); err == nil || !strings.Contains(err.Error(), "subcommand") {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema", "PyQuante")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, want := range []string{`"hf_method"`, `"6-31g**"`, `"additionalProperties": false`} {
		if !strings.Contains(out, want) {
			t.Fatalf("schema missing %s:\n%s", want, out)
		}
	}
	if _, err := execute(t, "schema", "gaussian"); !drivers.IsUnknownDriver(err) {
		t.Fatalf("expected unknown driver, got %v", err)
	}
}

func TestMoleculesCommand(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"h2.hdf5", "lih.h5", "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out, err := execute(t, "molecules", "--dir", dir, "-o", "yaml")
	if err != nil {
		t.Fatalf("molecules: %v", err)
	}
	if !strings.Contains(out, "name: h2.hdf5") || !strings.Contains(out, "name: lih.h5") || strings.Contains(out, "readme") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
	if _, err := execute(t, "molecules"); err == nil {
		t.Fatalf("expected error without a directory")
	}
}

func TestAnsatzRY(t *testing.T) {
	out, err := execute(t, "ansatz", "ry", "--qubits", "2", "--depth", "1", "--gate", "cx", "--params", "0.1,0.2,0.3,0.4")
	if err != nil {
		t.Fatalf("ansatz: %v", err)
	}
	for _, want := range []string{"Variational Form: RY\n", "-- num_parameters: 4\n", "OPENQASM 2.0;", "cx q[0],q[1];", "ry(0.4) q[1];"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	out, err = execute(t, "ansatz", "ry", "--qubits", "2", "--depth", "1", "--prefix", "p")
	if err != nil {
		t.Fatalf("symbolic: %v", err)
	}
	if !strings.Contains(out, "p[3]") {
		t.Fatalf("symbolic circuit missing p[3]:\n%s", out)
	}
	if _, err := execute(t, "ansatz", "ry", "--qubits", "2", "--params", "1,2"); err == nil {
		t.Fatalf("expected parameter count error")
	}
}

func TestUnsupportedOutput(t *testing.T) {
	if _, err := execute(t, "schema", "hdf5", "-o", "xml"); err == nil {
		t.Fatalf("expected output format error")
	}
}
