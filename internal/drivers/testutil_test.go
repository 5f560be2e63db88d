package drivers

import (
	"context"

	"qchemd/internal/molecule"
)

// fakeComputer records requests and returns canned results.
type fakeComputer struct {
	probeErr   error
	computeErr error
	result     *molecule.QMolecule
	requests   []IntegralRequest
	probes     int
}

func (f *fakeComputer) Probe(context.Context) error {
	f.probes++
	return f.probeErr
}

func (f *fakeComputer) Compute(_ context.Context, req IntegralRequest) (*molecule.QMolecule, error) {
	f.requests = append(f.requests, req)
	if f.computeErr != nil {
		return nil, f.computeErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &molecule.QMolecule{HFEnergy: -1.117, NumOrbitals: 2, NumAlpha: 1, NumBeta: 1, Multiplicity: 1}, nil
}
