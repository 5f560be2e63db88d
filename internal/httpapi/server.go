// Package httpapi exposes the driver registry over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qchemd/pkg/types"
)

// NewMux builds the HTTP handler for svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(corsHandler())
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/drivers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.DriversResponse{Drivers: svc.Drivers()})
	})

	r.Get("/drivers/{name}/schema", func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Schema(chi.URLParam(r, "name"))
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, s)
	})

	r.Post("/drivers/{name}/run", func(w http.ResponseWriter, r *http.Request) {
		handleRun(svc, w, r)
	})

	r.Get("/molecules", func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Molecules()
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		if list == nil {
			list = []types.MoleculeFile{}
		}
		writeJSON(w, types.MoleculesResponse{Molecules: list})
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func handleRun(svc Service, w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if runTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, runTimeout)
		defer tcancel()
	}

	lvl := requestLogLevel(r)
	start := time.Now()
	m, err := svc.Run(ctx, name, req.Options)
	if err != nil {
		if r.Context().Err() != nil {
			return // client went away
		}
		status := statusFor(err)
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeJSONError(w, status, err.Error())
		logRunEnd(r, lvl, name, status, start, err)
		return
	}
	writeJSON(w, m)
	logRunEnd(r, lvl, name, http.StatusOK, start, nil)
}

func corsHandler() func(http.Handler) http.Handler {
	methods := corsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := corsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		MaxAge:         300,
	})
}
