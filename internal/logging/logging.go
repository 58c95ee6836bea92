/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Options selects level and output format.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// Setup configures zerolog for the process.
func Setup(opts Options) zerolog.Logger {
	return SetupWithWriter(opts, os.Stdout)
}

// SetupWithWriter configures zerolog to write to w.
func SetupWithWriter(opts Options, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	writer := w
	if opts.Format != "json" {
		// Console writer for human-readable output
		writer = zerolog.ConsoleWriter{Out: w}
	}

	logger := zerolog.New(writer).
		Level(level).
		Hook(TraceHook{}).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// TraceHook adds trace_id and span_id to events whose context carries a valid span.
type TraceHook struct{}

// Run implements zerolog.Hook.
func (TraceHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	e.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
}
