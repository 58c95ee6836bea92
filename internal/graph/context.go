package graph

import (
	"context"
	"net/http"

	"github.com/graphql-go/graphql"
)

type contextKey string

const schemaContextKey contextKey = "beaconSchema"

// WithSchema attaches the shared schema to the context.
func WithSchema(ctx context.Context, schema *graphql.Schema) context.Context {
	return context.WithValue(ctx, schemaContextKey, schema)
}

// SchemaFromContext retrieves the schema from context if present.
func SchemaFromContext(ctx context.Context) (*graphql.Schema, bool) {
	schema, ok := ctx.Value(schemaContextKey).(*graphql.Schema)
	return schema, ok && schema != nil
}

// SchemaMiddleware makes schema available to every downstream handler.
// The schema is never mutated after construction, so sharing the pointer is safe.
func SchemaMiddleware(schema *graphql.Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithSchema(r.Context(), schema)))
		})
	}
}
