// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdShell
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	ConfigPath string // --config, overrides RBACDASH_CONFIG

	// Command-specific
	Name       string // command word as typed
	Subcommand string
	Force      bool

	// Raw args after the command word
	Raw []string
}

const usageText = `rbacdash - role-based access control dashboard

Manage users and roles in memory, from a full-screen dashboard or a line shell.
Nothing is persisted: every run starts from the seed data.

Usage:
  rbacdash                   Start the dashboard (default)
  rbacdash tui               Start the dashboard
  rbacdash shell             Line-oriented shell over the same data
  rbacdash config show       Print the effective configuration (--json)
  rbacdash config path       Print the configuration file in use
  rbacdash config init       Write a default config.toml (--force to overwrite)
  rbacdash version           Print version information (--json)
  rbacdash help              Show this help

Global flags:
  --config PATH              Configuration file (also RBACDASH_CONFIG)
  --json                     JSON output where supported

Dashboard keys:
  a add   e/Enter edit   d delete   Tab/1/2 switch view   s settings   ? help   q quit

Environment:
  RBACDASH_THEME, RBACDASH_LOG_LEVEL, RBACDASH_LOG_PATH, RBACDASH_ID_STRATEGY,
  RBACDASH_ROLE_DELETE_POLICY, RBACDASH_EDIT_UNIQUENESS
  A .env file in the working directory is read first.

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// Parse parses the process arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	args.Name = remaining[0]
	remaining = remaining[1:]
	args.Raw = remaining

	p := NewArgParser(remaining)
	args.Subcommand = p.Subcommand()
	args.Force = p.BoolFlag("force")

	switch strings.ToLower(args.Name) {
	case "tui", "dashboard":
		return CmdTUI, args
	case "shell", "sh":
		return CmdShell, args
	case "config":
		return CmdConfig, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	}
	return CmdUnknown, args
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "--config":
			if i+1 < len(argv) {
				i++
				args.ConfigPath = argv[i]
			}
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// =============================================================================
// VERSION
// =============================================================================

// VersionData is the JSON shape of "version --json".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion prints version information.
func HandleVersion(args Args, w io.Writer) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(w)
	}
	fmt.Fprintf(w, "rbacdash version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	return nil
}
