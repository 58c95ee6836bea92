/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/friendsincode/beacon/internal/graph"
	"github.com/friendsincode/beacon/internal/telemetry"
)

// maxRequestBytes bounds the GraphQL request body.
const maxRequestBytes = 1 << 20

// graphQLResponse is the standard response envelope plus extensions.
type graphQLResponse struct {
	Data       any                        `json:"data"`
	Errors     []gqlerrors.FormattedError `json:"errors,omitempty"`
	Extensions map[string]any             `json:"extensions,omitempty"`
}

func (a *API) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	schema, ok := graph.SchemaFromContext(r.Context())
	if !ok {
		a.logger.Error().Ctx(r.Context()).Msg("graphql schema missing from request context")
		writeError(w, http.StatusInternalServerError, "schema_unavailable")
		return
	}

	var req graph.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		a.logger.Debug().Ctx(r.Context()).Err(err).Msg("rejecting malformed graphql request")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	ctx, span := a.tracer.Start(r.Context(), "graphql.execute")
	defer span.End()
	telemetry.AddSpanAttributes(span, map[string]any{
		"graphql.operation.name":  req.OperationName,
		"graphql.document.length": len(req.Query),
	})

	start := time.Now()
	result := graph.Execute(ctx, schema, req)
	failed := result.HasErrors()
	if a.metrics != nil {
		a.metrics.ObserveGraphQLOperation(failed, time.Since(start))
	}

	if failed {
		for _, gqlErr := range result.Errors {
			telemetry.RecordError(span, errors.New(gqlErr.Message))
		}
		a.logger.Debug().Ctx(ctx).
			Str("operation", req.OperationName).
			Int("errors", len(result.Errors)).
			Msg("graphql execution returned errors")
	}

	writeJSON(w, http.StatusOK, graphQLResponse{
		Data:   result.Data,
		Errors: result.Errors,
		Extensions: map[string]any{
			"traceId": telemetry.TraceID(ctx),
		},
	})
}
