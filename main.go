// rbacdash - A terminal dashboard for managing users and roles.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rbacdash/internal/cli"
	"github.com/jeranaias/rbacdash/internal/config"
	"github.com/jeranaias/rbacdash/internal/logging"
	"github.com/jeranaias/rbacdash/internal/rbac"
	"github.com/jeranaias/rbacdash/internal/ui/dashboard"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// A missing .env is normal; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env: %v\n", err)
	}

	cmd, args := cli.Parse()
	if args.ConfigPath != "" {
		os.Setenv(config.EnvConfigPath, args.ConfigPath)
	}

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = run(runTUI)
	case cli.CmdShell:
		err = run(runShell)
	case cli.CmdConfig:
		err = cli.HandleConfig(args, os.Stdout)
	case cli.CmdVersion:
		err = cli.HandleVersion(args, os.Stdout)
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args.Name)
		cli.PrintUsage(os.Stderr)
		os.Exit(cli.ExitUsageError)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

// frontEnd runs one interactive front-end over a ready directory.
type frontEnd func(cfg *config.Config, dir *rbac.Directory, validator *rbac.Validator, log zerolog.Logger) error

// run loads configuration, starts logging and builds the directory shared by
// both front-ends.
func run(fe frontEnd) error {
	cfg, err := config.Load()
	if err != nil {
		return &cli.ConfigError{Err: err}
	}

	log, err := logging.Init(cfg.LogOptions())
	if err != nil {
		return err
	}
	defer logging.Close()

	log.Info().
		Str("version", Version).
		Str("id_strategy", cfg.RBAC.IDStrategy).
		Str("role_delete_policy", cfg.RBAC.RoleDeletePolicy).
		Str("edit_uniqueness", cfg.RBAC.EditUniqueness).
		Msg("startup")

	dir := rbac.NewDirectory(rbac.WithPolicies(cfg.Policies()), rbac.WithLogger(log))
	validator := rbac.NewValidator()
	validator.SetEditUniqueness(cfg.EditUniqueness())

	return fe(cfg, dir, validator, log)
}

func runShell(_ *config.Config, dir *rbac.Directory, validator *rbac.Validator, log zerolog.Logger) error {
	return cli.RunShell(dir, validator, log)
}

// runTUI starts the dashboard and, when enabled, the config file watcher.
func runTUI(cfg *config.Config, dir *rbac.Directory, _ *rbac.Validator, log zerolog.Logger) error {
	if err := cli.RequiresTTY("dashboard"); err != nil {
		return err
	}

	path, err := config.ActivePath()
	if err != nil {
		return &cli.ConfigError{Err: err}
	}

	m := dashboard.New(cfg, dir, dashboard.WithLogger(log), dashboard.WithConfigPath(path))
	defer m.Teardown()

	p := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.Watch {
		w, err := config.NewWatcher(path, func(c *config.Config, err error) {
			p.Send(dashboard.ConfigReloadedMsg{Config: c, Err: err})
		}, config.WithWatchLogger(log))
		if err == nil {
			if err = w.Watch(); err != nil {
				w.Close()
			} else {
				defer w.Close()
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config_watch_unavailable")
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
