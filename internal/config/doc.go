// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for rbacdash.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig: Theme and layout
//   - RBACConfig: Directory policies (id strategy, role delete policy, edit uniqueness)
//   - LogConfig: Log file settings
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RBACDASH_*)
//   - $RBACDASH_CONFIG, or ~/.rbacdash/config.toml, or ~/.rbacdash/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dir := rbac.NewDirectory(rbac.WithPolicies(cfg.Policies()))
package config
