/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package graph builds the GraphQL schema served by beacon and executes
// requests against it.
package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/friendsincode/beacon/internal/version"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// IntrospectionQuery describes the root operation types and their fields.
const IntrospectionQuery = `query IntrospectSchema {
  __schema {
    queryType { name fields { name description type { name kind ofType { name kind } } } }
    mutationType { name }
    subscriptionType { name }
  }
}`

// queryRoot is the only root type. graphql-go rejects object types without
// fields, so it carries two placeholders.
var queryRoot = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Query",
	Description: "Root query type.",
	Fields: graphql.Fields{
		"healthy": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.Boolean),
			Description: "Always true while the server is able to answer.",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return true, nil
			},
		},
		"version": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.String),
			Description: "Server build version.",
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return version.Version, nil
			},
		},
	},
})

// NewSchema builds the schema. Mutations and subscriptions are disabled.
func NewSchema() (graphql.Schema, error) {
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryRoot,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build schema: %w", err)
	}
	return schema, nil
}

// Execute runs req against schema. Parse, validation and resolver errors are
// reported in the result's Errors, never as a Go error.
func Execute(ctx context.Context, schema *graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         *schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}
