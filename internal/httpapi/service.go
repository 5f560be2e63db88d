package httpapi

import (
	"context"
	"errors"

	"github.com/getkin/kin-openapi/openapi3"

	"qchemd/internal/drivers"
	"qchemd/internal/molecule"
	"qchemd/internal/registry"
	"qchemd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Drivers() []types.DriverInfo
	Schema(name string) (*openapi3.Schema, error)
	Run(ctx context.Context, name string, opts map[string]any) (*molecule.QMolecule, error)
	Molecules() ([]types.MoleculeFile, error)
}

// registryService serves a driver registry and a molecules directory.
type registryService struct {
	*drivers.Registry
	moleculesDir string
}

// NewService wraps reg. moleculesDir is scanned by GET /molecules; empty
// disables the listing.
func NewService(reg *drivers.Registry, moleculesDir string) Service {
	return &registryService{Registry: reg, moleculesDir: moleculesDir}
}

// errNoMoleculesDir maps to 404 through statusFor.
var errNoMoleculesDir = errors.New("no molecules directory configured")

func (s *registryService) Molecules() ([]types.MoleculeFile, error) {
	if s.moleculesDir == "" {
		return nil, errNoMoleculesDir
	}
	return registry.LoadDir(s.moleculesDir)
}
