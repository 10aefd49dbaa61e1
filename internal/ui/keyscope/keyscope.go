// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package keyscope provides key handlers whose lifetime is tied to a piece of
// UI, such as a modal dialog.
//
// A view acquires a subscription when it opens and releases it when it
// closes. The dashboard offers each key press to the registry before routing
// it anywhere else, newest subscription first. An owner holds at most one
// subscription: acquiring again replaces the previous handler, so repeated
// open/close cycles never stack handlers.
package keyscope

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Handler handles a key press. It reports whether the key was consumed.
type Handler func(msg tea.KeyMsg) (tea.Cmd, bool)

// Registry is an ordered set of subscriptions.
type Registry struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Subscription is one owner's handler in a Registry.
type Subscription struct {
	owner   string
	handler Handler
	reg     *Registry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Acquire registers handler for owner and returns its subscription. A
// subscription already held by owner is released first.
func (r *Registry) Acquire(owner string, handler Handler) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(owner)
	s := &Subscription{owner: owner, handler: handler, reg: r}
	r.subs = append(r.subs, s)
	return s
}

// Dispatch offers msg to each subscription, newest first, until one consumes it.
func (r *Registry) Dispatch(msg tea.KeyMsg) (tea.Cmd, bool) {
	r.mu.Lock()
	subs := make([]*Subscription, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	// Handlers may release their own subscription, so run them unlocked.
	for i := len(subs) - 1; i >= 0; i-- {
		if cmd, ok := subs[i].handler(msg); ok {
			return cmd, true
		}
	}
	return nil, false
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Owners returns the owners of live subscriptions, oldest first.
func (r *Registry) Owners() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := make([]string, len(r.subs))
	for i, s := range r.subs {
		owners[i] = s.owner
	}
	return owners
}

// Has reports whether owner holds a subscription.
func (r *Registry) Has(owner string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.owner == owner {
			return true
		}
	}
	return false
}

// ReleaseAll drops every subscription.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = nil
}

func (r *Registry) removeLocked(owner string) {
	kept := r.subs[:0]
	for _, s := range r.subs {
		if s.owner != owner {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(r.subs); i++ {
		r.subs[i] = nil
	}
	r.subs = kept
}

// Owner returns the name the subscription was acquired under.
func (s *Subscription) Owner() string {
	return s.owner
}

// Release removes the subscription. Releasing twice, or releasing a
// subscription that has been replaced, does nothing.
func (s *Subscription) Release() {
	if s == nil || s.reg == nil {
		return
	}
	r := s.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.subs {
		if cur == s {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			break
		}
	}
	s.reg = nil
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	if s == nil || s.reg == nil {
		return false
	}
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	for _, cur := range s.reg.subs {
		if cur == s {
			return true
		}
	}
	return false
}
