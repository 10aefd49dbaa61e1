// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rbacdash/internal/config"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"edit-user", "3", "--name", "Bob", "--email=bob@x.io", "--yes", "--json=false"})

	assert.Equal(t, "edit-user", p.Subcommand())
	assert.Equal(t, "3", p.Positional(1))
	assert.Equal(t, "", p.Positional(5))
	assert.Equal(t, 2, p.PositionalCount())
	assert.Equal(t, []string{"3"}, p.PositionalFrom(1))
	assert.Equal(t, "Bob", p.Flag("name"))
	assert.Equal(t, "bob@x.io", p.Flag("--email"))
	assert.True(t, p.BoolFlag("yes"))
	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.HasFlag("json"))
	assert.False(t, p.HasFlag("role"))

	_, given := p.LookupFlag("role")
	assert.False(t, given)

	empty := NewArgParser([]string{"edit-user", "1", "--name="})
	v, given := empty.LookupFlag("name")
	assert.True(t, given)
	assert.Equal(t, "", v)
}

// =============================================================================
// COMMAND PARSING TESTS
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		argv []string
		cmd  Command
		sub  string
		json bool
	}{
		{nil, CmdTUI, "", false},
		{[]string{"tui"}, CmdTUI, "", false},
		{[]string{"shell"}, CmdShell, "", false},
		{[]string{"config", "show", "--json"}, CmdConfig, "show", true},
		{[]string{"--json", "version"}, CmdVersion, "", true},
		{[]string{"--help"}, CmdHelp, "", false},
		{[]string{"frobnicate"}, CmdUnknown, "", false},
	}

	for _, tc := range tests {
		cmd, args := ParseArgs(tc.argv)
		assert.Equal(t, tc.cmd, cmd, "argv %v", tc.argv)
		assert.Equal(t, tc.sub, args.Subcommand, "argv %v", tc.argv)
		assert.Equal(t, tc.json, args.JSON, "argv %v", tc.argv)
	}
}

func TestParseArgs_ConfigFlag(t *testing.T) {
	_, args := ParseArgs([]string{"--config", "/tmp/x.toml", "config", "path"})
	assert.Equal(t, "/tmp/x.toml", args.ConfigPath)
	assert.Equal(t, "path", args.Subcommand)

	_, args = ParseArgs([]string{"--config=/tmp/y.json", "config", "init", "--force"})
	assert.Equal(t, "/tmp/y.json", args.ConfigPath)
	assert.True(t, args.Force)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "rbacdash shell")
	assert.Contains(t, buf.String(), Version)
}

// =============================================================================
// VERSION TESTS
// =============================================================================

func TestHandleVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HandleVersion(Args{}, &buf))
	assert.Contains(t, buf.String(), "rbacdash version "+Version)

	buf.Reset()
	require.NoError(t, HandleVersion(Args{JSON: true}, &buf))

	var resp struct {
		Success bool        `json:"success"`
		Command string      `json:"command"`
		Data    VersionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "version", resp.Command)
	assert.Equal(t, Version, resp.Data.Version)
}

// =============================================================================
// CONFIG COMMAND TESTS
// =============================================================================

func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		config.EnvConfigPath, "RBACDASH_THEME", "RBACDASH_LOG_LEVEL", "RBACDASH_LOG_PATH",
		"RBACDASH_ID_STRATEGY", "RBACDASH_ROLE_DELETE_POLICY", "RBACDASH_EDIT_UNIQUENESS",
	} {
		t.Setenv(k, "")
	}
	return home
}

func TestHandleConfig_InitShowPath(t *testing.T) {
	home := isolateConfig(t)
	want := filepath.Join(home, ".rbacdash", "config.toml")

	var buf bytes.Buffer
	require.NoError(t, HandleConfig(Args{Subcommand: "path"}, &buf))
	assert.Contains(t, buf.String(), "not found")

	buf.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "init"}, &buf))
	assert.Contains(t, buf.String(), want)
	_, err := os.Stat(want)
	require.NoError(t, err)

	err = HandleConfig(Args{Subcommand: "init"}, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	require.NoError(t, HandleConfig(Args{Subcommand: "init", Force: true}, &buf))

	buf.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "path"}, &buf))
	assert.Equal(t, want+"\n", buf.String())

	buf.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "show"}, &buf))
	assert.Contains(t, buf.String(), `role_delete_policy = "ignore"`)

	buf.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "show", JSON: true}, &buf))
	assert.Contains(t, buf.String(), `"edit_uniqueness": "exclude_self"`)
}

func TestHandleConfig_Errors(t *testing.T) {
	home := isolateConfig(t)

	err := HandleConfig(Args{Subcommand: "frob"}, &bytes.Buffer{})
	assert.Equal(t, ExitUsageError, ExitCode(err))

	bad := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[rbac]\nid_strategy = \"random\"\n"), 0600))
	t.Setenv(config.EnvConfigPath, bad)

	err = HandleConfig(Args{Subcommand: "show"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitUsageError, ExitCode(usageErrorf("bad %s", "x")))
	assert.Equal(t, ExitConfigError, ExitCode(&ConfigError{Err: errors.New("x")}))
	assert.Equal(t, ExitGeneralError, ExitCode(errors.New("x")))
}

func TestTTYRequiredError(t *testing.T) {
	err := &TTYRequiredError{Operation: "dashboard"}
	assert.Equal(t, "dashboard requires an interactive terminal", err.Error())
}
