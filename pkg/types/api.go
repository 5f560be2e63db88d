package types

// RunRequest is the body of POST /drivers/{name}/run.
type RunRequest struct {
	// Driver options keyed by option name. Omitted options take their defaults.
	// example: {"atoms":"H 0.0 0.0 0.0; H 0.0 0.0 0.735","basis":"sto3g"}
	Options map[string]any `json:"options,omitempty"`
}

// DriversResponse wraps the list returned by GET /drivers.
type DriversResponse struct {
	// Registered drivers.
	Drivers []DriverInfo `json:"drivers"`
}

// MoleculesResponse wraps the list returned by GET /molecules.
type MoleculesResponse struct {
	// HDF5 files in the configured molecules directory.
	Molecules []MoleculeFile `json:"molecules"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: PYQUANTE driver: invalid basis 6-311g: must be one of sto3g, 6-31g, 6-31g**
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
