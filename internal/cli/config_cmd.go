// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rbacdash/internal/config"
)

// HandleConfig runs "config show|path|init".
func HandleConfig(args Args, w io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args, w)
	case "path":
		return configPath(args, w)
	case "init":
		return configInit(args, w)
	}
	return usageErrorf("unknown config subcommand %q (want show, path or init)", args.Subcommand)
}

func configShow(args Args, w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		if args.JSON {
			_ = NewJSONErrorResponse("config show", err).Write(w)
		}
		return &ConfigError{Err: err}
	}
	if args.JSON {
		return NewJSONResponse("config show", cfg).Write(w)
	}
	return toml.NewEncoder(w).Encode(cfg)
}

func configPath(args Args, w io.Writer) error {
	path, err := config.ActivePath()
	if err != nil {
		return &ConfigError{Err: err}
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if args.JSON {
		return NewJSONResponse("config path", map[string]any{"path": path, "exists": exists}).Write(w)
	}
	if exists {
		fmt.Fprintln(w, path)
	} else {
		fmt.Fprintf(w, "%s (not found, built-in defaults in use)\n", path)
	}
	return nil
}

func configInit(args Args, w io.Writer) error {
	path, err := config.ActivePath()
	if err != nil {
		return &ConfigError{Err: err}
	}
	if _, err := os.Stat(path); err == nil && !args.Force {
		return usageErrorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &ConfigError{Err: err}
	}

	cfg := config.Default()
	cfg.SetDefaults()
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = config.SaveJSON(cfg, path)
	} else {
		err = config.SaveTOML(cfg, path)
	}
	if err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
