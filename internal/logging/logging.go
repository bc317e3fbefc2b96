// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger shared by all components.
//
// The chat UI owns the terminal, so logs go to a file (~/.ndu/ndu.log) by
// default. Headless commands can ask for a human-readable console writer on
// stderr instead. Components receive a zerolog.Logger value and add their
// own "component" field.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the log destination and level.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string

	// Path is the log file. Ignored when Console is set.
	Path string

	// Console writes human-readable output to Stderr.
	Console bool

	// Stderr overrides os.Stderr for console output.
	Stderr io.Writer
}

// New returns a logger and a close function for the underlying file.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	if opts.Console {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
			Level(level).
			With().
			Timestamp().
			Logger()
		return logger, noop, nil
	}

	if opts.Path == "" {
		return zerolog.Nop(), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, f.Close, nil
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
