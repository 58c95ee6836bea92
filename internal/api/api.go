/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/friendsincode/beacon/internal/api"

// OperationObserver records GraphQL executions.
type OperationObserver interface {
	ObserveGraphQLOperation(failed bool, d time.Duration)
}

// Options configures the API handlers.
type Options struct {
	TracerProvider    trace.TracerProvider
	Metrics           OperationObserver
	PlaygroundEnabled bool
}

// API exposes HTTP handlers.
type API struct {
	tracer     trace.Tracer
	metrics    OperationObserver
	playground http.HandlerFunc
	logger     zerolog.Logger
}

// New creates the API router wrapper.
func New(opts Options, logger zerolog.Logger) *API {
	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	a := &API{
		tracer:  tp.Tracer(tracerName),
		metrics: opts.Metrics,
		logger:  logger.With().Str("component", "api").Logger(),
	}
	if opts.PlaygroundEnabled {
		a.playground = playground.Handler("GraphQL playground", "/")
	}
	return a
}

// Routes registers the health and GraphQL routes on r.
func (a *API) Routes(r chi.Router) {
	r.Get("/health", a.handleHealth)
	if a.playground != nil {
		r.Get("/", a.playground)
	} else {
		// Without this chi answers 405 because POST / exists.
		r.Get("/", http.NotFound)
	}
	r.Post("/", a.handleGraphQL)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
