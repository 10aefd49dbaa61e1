// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the process-wide structured logger backed by zerolog.
//
// The dashboard owns the terminal, so log lines go to a file rather than
// stdout. Initialise once at startup with Init, then retrieve anywhere with Get.
//
//	TRACE (-1) → DEBUG (0) → INFO (1) → WARN (2) → ERROR (3)
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Enabled turns logging on. A disabled logger discards everything.
	Enabled bool
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Path is the log file, opened in append mode. Ignored when Output is set.
	Path string
	// Output overrides the file. Mostly for tests.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance = zerolog.Nop()
	file     *os.File
	session  string
)

// Init builds the logger. Calling it again replaces the previous logger and
// closes its file.
func Init(opts Options) (zerolog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	if !opts.Enabled {
		instance = zerolog.Nop()
		return instance, nil
	}

	out := opts.Output
	if out == nil {
		if opts.Path == "" {
			return zerolog.Nop(), fmt.Errorf("logging: no log path configured")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: open %s: %w", opts.Path, err)
		}
		file = f
		out = f
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	session = uuid.NewString()

	instance = zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Str("session", session).
		Logger()
	return instance, nil
}

// Get returns the current logger. Before Init it is a no-op logger.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Session returns the id stamped on every line of this run, or "" when
// logging is off.
func Session() string {
	mu.Lock()
	defer mu.Unlock()
	return session
}

// Close flushes and closes the log file, if any, and reverts to a no-op logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

// Reset tears down the logger so that the next Init call rebuilds it.
// Intended for use in tests only.
func Reset() {
	_ = Close()
}

func closeLocked() error {
	instance = zerolog.Nop()
	session = ""
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// parseLevel converts a string to a zerolog.Level.
//
//	"trace" → TraceLevel (-1)
//	"debug" → DebugLevel ( 0)
//	"info"  → InfoLevel  ( 1)  ← default
//	"warn"  → WarnLevel  ( 2)
//	"error" → ErrorLevel ( 3)
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether s names a level parseLevel understands
// explicitly rather than by falling back to info.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
