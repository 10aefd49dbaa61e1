// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rbacdash/internal/config"
	"github.com/jeranaias/rbacdash/internal/rbac"
)

const historyFileName = "shell_history"

// RunShell runs the interactive shell until quit, Ctrl+C or end of input.
// Line editing and history come from liner; history is kept in the config
// directory.
func RunShell(dir *rbac.Directory, validator *rbac.Validator, log zerolog.Logger) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)

	historyFile := ""
	if cfgDir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(cfgDir, historyFileName)
		if f, err := os.Open(historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer saveHistory(line, historyFile)

	confirm := func(question string) (bool, error) {
		answer, err := line.Prompt(question + " [y/N] ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}

	sh := NewShell(dir, validator, os.Stdout, WithConfirm(confirm), WithShellLogger(log))
	fmt.Println("rbacdash shell. Type help for commands, quit to leave.")

	for {
		input, err := line.Prompt("rbac> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		quit, err := sh.Exec(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// completer completes the command word.
func completer(input string) []string {
	if strings.Contains(input, " ") {
		return nil
	}
	var out []string
	for _, name := range CommandNames() {
		if strings.HasPrefix(name, strings.ToLower(input)) {
			out = append(out, name)
		}
	}
	return out
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
