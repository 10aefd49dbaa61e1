// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// ReloadFunc receives the outcome of each reload. cfg is nil when err is set.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads one config file when it changes on disk.
//
// Editors often write a file in several steps (truncate, write, rename), so
// events are collected until the file has been quiet for the debounce period,
// and reloads are additionally capped by a rate limiter.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	onReload ReloadFunc
	log      zerolog.Logger

	mu      sync.Mutex
	pending time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started atomic.Bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the file must be quiet before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the logger for reload events.
func WithWatchLogger(log zerolog.Logger) WatcherOption {
	return func(w *Watcher) { w.log = log }
}

// NewWatcher creates a watcher for path. Call Watch to start it.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fsw,
		debounce: 200 * time.Millisecond,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
		onReload: onReload,
		log:      zerolog.Nop(),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = 200 * time.Millisecond
	}
	return w, nil
}

// Watch starts watching. The parent directory is watched rather than the
// file so that atomic replace-by-rename is seen.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started.Store(true)
	go w.run()
	return nil
}

// Close stops watching and waits for the event loop to exit. It returns
// at once when Watch never succeeded.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	if !w.started.Load() {
		return err
	}
	select {
	case <-w.done:
	case <-time.After(time.Second):
	}
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config_watch_error")

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if due {
				if err := w.limiter.Wait(w.ctx); err != nil {
					return
				}
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config_reload_failed")
		w.onReload(nil, err)
		return
	}
	SetGlobal(cfg)
	w.log.Info().Str("path", w.path).Msg("config_reloaded")
	w.onReload(cfg, nil)
}
