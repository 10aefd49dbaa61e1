// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rbac

// idAllocator hands out record ids for one store.
type idAllocator struct {
	strategy IDStrategy
	next     int
}

func newIDAllocator(strategy IDStrategy) *idAllocator {
	return &idAllocator{strategy: strategy, next: 1}
}

// observe records an id that already exists so the sequence stays above it.
func (a *idAllocator) observe(id int) {
	if id >= a.next {
		a.next = id + 1
	}
}

// allocate returns the id for a record appended to a sequence of length count.
func (a *idAllocator) allocate(count int) int {
	if a.strategy == IDPositional {
		id := count + 1
		a.observe(id)
		return id
	}
	id := a.next
	a.next++
	return id
}
