// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swap

import (
	"fmt"
	"slices"

	"github.com/gogpu/compositor/buffer"
)

// Snapshot is a consistent copy of the coordinator state.
type Snapshot struct {
	// ClientReady is the client queue, oldest first.
	ClientReady []buffer.ID

	// CompositorReady is the compositor queue, oldest first.
	CompositorReady []buffer.ID

	// ClientOwned lists buffers checked out by the client, sorted.
	ClientOwned []buffer.ID

	// CompositorOwned lists buffers checked out by the compositor, sorted.
	CompositorOwned []buffer.ID

	// ClientOutstanding is the client checkout counter.
	ClientOutstanding int

	// Closed reports whether Shutdown has been called.
	Closed bool
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		ClientReady:       c.clientReady.clone(),
		CompositorReady:   c.compositorReady.clone(),
		ClientOwned:       []buffer.ID{},
		CompositorOwned:   []buffer.ID{},
		ClientOutstanding: c.clientOutstanding,
		Closed:            c.closed,
	}
	for id, st := range c.state {
		switch st {
		case StateClientOwned:
			s.ClientOwned = append(s.ClientOwned, id)
		case StateCompositorOwned:
			s.CompositorOwned = append(s.CompositorOwned, id)
		}
	}
	slices.Sort(s.ClientOwned)
	slices.Sort(s.CompositorOwned)
	return s
}

// Validate checks that every id of the pool appears exactly once across
// the queues and checkouts, and that the client never holds the whole pool.
func (s Snapshot) Validate(ids []buffer.ID) error {
	seen := make(map[buffer.ID]int, len(ids))
	for _, list := range [][]buffer.ID{s.ClientReady, s.CompositorReady, s.ClientOwned, s.CompositorOwned} {
		for _, id := range list {
			seen[id]++
		}
	}

	for _, id := range ids {
		if seen[id] != 1 {
			return fmt.Errorf("swap: %s seen %d times, want 1", id, seen[id])
		}
		delete(seen, id)
	}
	for id, count := range seen {
		if count > 0 {
			return fmt.Errorf("swap: %s is not part of the pool", id)
		}
	}

	if s.ClientOutstanding != len(s.ClientOwned) {
		return fmt.Errorf("swap: client outstanding %d, but %d client-owned",
			s.ClientOutstanding, len(s.ClientOwned))
	}
	if s.ClientOutstanding >= len(ids) {
		return fmt.Errorf("swap: client holds %d of %d buffers", s.ClientOutstanding, len(ids))
	}
	return nil
}
