// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package keyscope

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func counting(n *int, key string) Handler {
	return func(msg tea.KeyMsg) (tea.Cmd, bool) {
		if msg.String() != key {
			return nil, false
		}
		*n++
		return nil, true
	}
}

func TestAcquireRelease(t *testing.T) {
	r := New()
	var n int

	sub := r.Acquire("role-modal", counting(&n, "esc"))
	require.True(t, sub.Active())
	assert.True(t, r.Has("role-modal"))

	_, ok := r.Dispatch(escKey)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	sub.Release()
	assert.False(t, sub.Active())
	assert.Equal(t, 0, r.Len())

	_, ok = r.Dispatch(escKey)
	assert.False(t, ok)
	assert.Equal(t, 1, n)

	// Releasing again is harmless.
	sub.Release()
	var nilSub *Subscription
	nilSub.Release()
	assert.False(t, nilSub.Active())
}

func TestRepeatedCyclesNeverStack(t *testing.T) {
	r := New()
	var n int

	for i := 0; i < 5; i++ {
		r.Acquire("role-modal", counting(&n, "esc"))
	}
	assert.Equal(t, 1, r.Len())

	r.Dispatch(escKey)
	assert.Equal(t, 1, n, "one key press must reach exactly one handler")

	for i := 0; i < 5; i++ {
		sub := r.Acquire("role-modal", counting(&n, "esc"))
		sub.Release()
	}
	assert.Equal(t, 0, r.Len())
}

func TestReplacedSubscriptionReleaseIsNoOp(t *testing.T) {
	r := New()
	var first, second int

	old := r.Acquire("role-modal", counting(&first, "esc"))
	cur := r.Acquire("role-modal", counting(&second, "esc"))
	assert.False(t, old.Active())

	old.Release()
	assert.True(t, cur.Active())

	r.Dispatch(escKey)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestDispatchNewestFirst(t *testing.T) {
	r := New()
	var order []string

	r.Acquire("outer", func(tea.KeyMsg) (tea.Cmd, bool) {
		order = append(order, "outer")
		return nil, true
	})
	r.Acquire("inner", func(tea.KeyMsg) (tea.Cmd, bool) {
		order = append(order, "inner")
		return nil, false
	})

	_, ok := r.Dispatch(escKey)
	assert.True(t, ok)
	assert.Equal(t, []string{"inner", "outer"}, order)
	assert.Equal(t, []string{"outer", "inner"}, r.Owners())
}

func TestHandlerMayReleaseItself(t *testing.T) {
	r := New()
	var sub *Subscription
	sub = r.Acquire("role-modal", func(tea.KeyMsg) (tea.Cmd, bool) {
		sub.Release()
		return nil, true
	})

	_, ok := r.Dispatch(escKey)
	assert.True(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestReleaseAll(t *testing.T) {
	r := New()
	a := r.Acquire("a", func(tea.KeyMsg) (tea.Cmd, bool) { return nil, false })
	r.Acquire("b", func(tea.KeyMsg) (tea.Cmd, bool) { return nil, false })

	r.ReleaseAll()
	assert.Equal(t, 0, r.Len())
	assert.False(t, a.Active())
}
