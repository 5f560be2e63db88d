//go:build !swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// MountSwagger mounts nothing in default builds; see swagger.go.
func MountSwagger(r chi.Router) {}
