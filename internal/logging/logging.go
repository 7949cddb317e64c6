// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging constructs the zerolog logger used by the CLI
// surface. The linking core itself is log-free.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger. level is a zerolog level name ("debug", "info",
// ...); console switches from JSON lines to human-readable output.
func New(level string, console bool) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var writer io.Writer = os.Stderr
	if console {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(parsed).
		With().
		Timestamp().
		Str("service", "story-linker").
		Logger(), nil
}
