package httpapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"qchemd/internal/drivers"
	"qchemd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps driver error kinds onto HTTP status codes. Dependency
// errors are checked before configuration errors since the former also
// satisfy drivers.IsConfigError.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case drivers.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case drivers.IsConfigError(err):
		return http.StatusBadRequest
	case drivers.IsLookup(err), drivers.IsUnknownDriver(err), errors.Is(err, errNoMoleculesDir), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON encodes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
