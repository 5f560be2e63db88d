package drivers

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"qchemd/internal/molecule"
)

// PyQuanteMissingMessage is reported when the pyquante2 package cannot be
// imported by the configured interpreter.
const PyQuanteMissingMessage = "PyQuante2 is not installed. See https://github.com/rpmuller/pyquante2"

// PythonEnv names the environment variable that overrides the interpreter.
const PythonEnv = "QCHEMD_PYTHON"

//go:embed pyquante_integrals.py
var pyquanteScript string

// PyQuante2 computes integrals by running a Python interpreter with the
// pyquante2 package installed. The request is written to the script's stdin
// as JSON and the molecule is read back from stdout.
type PyQuante2 struct {
	// Python is the interpreter to run.
	Python string
}

var _ IntegralComputer = (*PyQuante2)(nil)

// NewPyQuante2 returns a computer for python. An empty python falls back to
// $QCHEMD_PYTHON, then to "python3".
func NewPyQuante2(python string) *PyQuante2 {
	python = strings.TrimSpace(python)
	if python == "" {
		python = strings.TrimSpace(os.Getenv(PythonEnv))
	}
	if python == "" {
		python = "python3"
	}
	return &PyQuante2{Python: python}
}

// Probe imports pyquante2 in a throwaway interpreter.
func (p *PyQuante2) Probe(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.Python, "-c", "import pyquante2")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		logger().Debug().Err(err).Str("python", p.Python).Str("stderr", strings.TrimSpace(stderr.String())).Msg("PyQuante2 check error")
		return ErrDependencyUnavailable(PyQuanteMissingMessage)
	}
	return nil
}

// Compute runs the SCF and integral transformation for req.
func (p *PyQuante2) Compute(ctx context.Context, req IntegralRequest) (*molecule.QMolecule, error) {
	in, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, p.Python, "-c", pyquanteScript)
	cmd.Stdin = bytes.NewReader(in)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger().Debug().Str("python", p.Python).Str("atoms", req.Atoms).Str("basis", string(req.Basis)).Msg("running pyquante2")
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := lastLine(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("pyquante2: %w", err)
		}
		return nil, fmt.Errorf("pyquante2: %s: %w", msg, err)
	}
	var m molecule.QMolecule
	if err := json.Unmarshal(stdout.Bytes(), &m); err != nil {
		return nil, fmt.Errorf("pyquante2: decode output: %w", err)
	}
	return &m, nil
}

// lastLine returns the final non-empty line of s; Python puts the exception
// message there.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
