package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/friendsincode/beacon/internal/version"
)

func mustSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	schema, err := NewSchema()
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	return &schema
}

func TestExecuteTypename(t *testing.T) {
	schema := mustSchema(t)

	result := Execute(context.Background(), schema, Request{Query: "{ __typename }"})
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}
	if data["__typename"] != "Query" {
		t.Fatalf("__typename=%v", data["__typename"])
	}
}

func TestExecutePlaceholderFields(t *testing.T) {
	schema := mustSchema(t)

	result := Execute(context.Background(), schema, Request{
		Query:         "query Probe { healthy version }",
		OperationName: "Probe",
	})
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	data := result.Data.(map[string]any)
	if data["healthy"] != true {
		t.Fatalf("healthy=%v", data["healthy"])
	}
	if data["version"] != version.Version {
		t.Fatalf("version=%v, want %s", data["version"], version.Version)
	}
}

func TestExecuteReportsErrorsInEnvelope(t *testing.T) {
	schema := mustSchema(t)

	cases := []string{
		"{ missingField }",
		"{ healthy ",
		"mutation { anything }",
		"subscription { anything }",
	}
	for _, query := range cases {
		result := Execute(context.Background(), schema, Request{Query: query})
		if !result.HasErrors() {
			t.Errorf("expected errors for %q", query)
		}
	}
}

func TestSchemaHasNoMutationOrSubscription(t *testing.T) {
	schema := mustSchema(t)
	if schema.MutationType() != nil {
		t.Fatal("mutation type should be disabled")
	}
	if schema.SubscriptionType() != nil {
		t.Fatal("subscription type should be disabled")
	}
	result := Execute(context.Background(), schema, Request{Query: IntrospectionQuery})
	if result.HasErrors() {
		t.Fatalf("introspection failed: %v", result.Errors)
	}
}

func TestSchemaMiddlewareSharesSchema(t *testing.T) {
	schema := mustSchema(t)

	var got *graphql.Schema
	h := SchemaMiddleware(schema)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SchemaFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got != schema {
		t.Fatal("expected handler to see the shared schema instance")
	}
	if _, ok := SchemaFromContext(context.Background()); ok {
		t.Fatal("expected no schema in a bare context")
	}
}
