package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/friendsincode/beacon/internal/config"
	"github.com/friendsincode/beacon/internal/graph"
	"github.com/friendsincode/beacon/internal/logging"
	"github.com/friendsincode/beacon/internal/server"
	"github.com/friendsincode/beacon/internal/telemetry"
	"github.com/friendsincode/beacon/internal/version"
)

const metricsNamespace = "beacon"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "beacon",
		Short:         "beacon - GraphQL server skeleton",
		Long:          "beacon serves a health check, a GraphQL endpoint and Prometheus metrics, with optional OpenTelemetry tracing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Long:  "Start the HTTP server and serve until SIGINT or SIGTERM",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return err
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Print the GraphQL schema introspection as JSON",
			RunE:  runSchema,
		},
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info().Str("version", version.Version).Msg("beacon starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version.Version,
		InstanceID:     cfg.InstanceID,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Protocol:       cfg.OTLPProtocol,
		Insecure:       cfg.OTLPInsecure,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("tracer shutdown failed")
		}
	}()

	schema, err := graph.NewSchema()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	srv, err := server.New(cfg, server.Deps{
		Schema:  &schema,
		Metrics: telemetry.NewMetrics(metricsNamespace),
		Tracer:  tracerProvider,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	// Deferred after the tracer shutdown, so it runs first.
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("shutdown cleanup failed")
		}
	}()

	ln, err := net.Listen("tcp", cfg.HTTPAddr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.HTTPAddr(), err)
	}

	if err := srv.Serve(ctx, ln); err != nil {
		return err
	}

	logger.Info().Msg("beacon stopped")
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	schema, err := graph.NewSchema()
	if err != nil {
		return err
	}

	result := graph.Execute(cmd.Context(), &schema, graph.Request{Query: graph.IntrospectionQuery})
	if result.HasErrors() {
		return fmt.Errorf("introspect schema: %v", result.Errors)
	}

	out, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
