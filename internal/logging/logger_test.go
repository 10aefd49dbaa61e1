// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	t.Cleanup(Reset)

	log, err := Init(Options{Enabled: false, Path: "/nonexistent/never/used.log"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
	assert.Equal(t, "", Session())
}

func TestInit_OutputAndLevel(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	_, err := Init(Options{Enabled: true, Level: "warn", Output: &buf})
	require.NoError(t, err)

	log := Get()
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"session":"`+Session()+`"`)
	assert.NotEmpty(t, Session())
}

func TestInit_File(t *testing.T) {
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "nested", "rbacdash.log")
	_, err := Init(Options{Enabled: true, Path: path})
	require.NoError(t, err)

	log := Get()
	log.Info().Str("name", "Bob").Msg("user_added")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"user_added"`)
}

func TestInit_NoPath(t *testing.T) {
	t.Cleanup(Reset)

	_, err := Init(Options{Enabled: true})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel("TRACE"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" debug "))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))

	assert.True(t, ValidLevel("Info"))
	assert.False(t, ValidLevel("verbose"))
}
