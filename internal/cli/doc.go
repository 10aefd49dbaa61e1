// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the rbacdash command line and implements the
// non-dashboard commands: the line shell, config inspection and version.
//
// # Commands
//
//   - tui (default): full-screen dashboard, started by main
//   - shell: liner-based shell over the same directory and validation
//   - config show|path|init
//   - version, help
//
// Handlers take an io.Writer and return errors; ExitCode maps an error to
// the process exit status.
package cli
