package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/friendsincode/beacon/internal/version"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("beacon %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "version", "schema"} {
		found, _, err := cmd.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Fatalf("expected %q subcommand, got %v (%v)", name, found, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	if !strings.Contains(out, version.Version) {
		t.Fatalf("version output %q missing %s", out, version.Version)
	}
}

func TestSchemaCommand(t *testing.T) {
	out := execute(t, "schema")

	var doc struct {
		Schema struct {
			QueryType struct {
				Name   string `json:"name"`
				Fields []struct {
					Name string `json:"name"`
				} `json:"fields"`
			} `json:"queryType"`
			MutationType     any `json:"mutationType"`
			SubscriptionType any `json:"subscriptionType"`
		} `json:"__schema"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode schema output: %v\n%s", err, out)
	}
	if doc.Schema.QueryType.Name != "Query" {
		t.Fatalf("query type %q", doc.Schema.QueryType.Name)
	}
	if len(doc.Schema.QueryType.Fields) != 2 {
		t.Fatalf("expected 2 placeholder fields, got %d", len(doc.Schema.QueryType.Fields))
	}
	if doc.Schema.MutationType != nil || doc.Schema.SubscriptionType != nil {
		t.Fatal("mutation and subscription must be disabled")
	}
}

func TestServeFailsOnInvalidConfig(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("BEACON_HTTP_PORT", "0")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve"})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected serve to fail with invalid port")
	}
}

func TestServeReportsBindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	t.Setenv("ENV_FILE", "")
	t.Setenv("BEACON_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("BEACON_HTTP_BIND", "127.0.0.1")
	t.Setenv("BEACON_HTTP_PORT", strconv.Itoa(taken.Addr().(*net.TCPAddr).Port))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve"})
	err = cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bind") {
		t.Fatalf("expected bind error, got %v", err)
	}
}
