// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swap

import "github.com/gogpu/compositor/buffer"

// State is the position of a buffer in the swap cycle.
type State uint8

const (
	// StateClientReady means the buffer is queued for the client.
	StateClientReady State = iota

	// StateClientOwned means the client has the buffer checked out.
	StateClientOwned

	// StateCompositorReady means the buffer is queued for the compositor.
	StateCompositorReady

	// StateCompositorOwned means the compositor has the buffer checked out.
	StateCompositorOwned
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClientReady:
		return "client-ready"
	case StateClientOwned:
		return "client-owned"
	case StateCompositorReady:
		return "compositor-ready"
	case StateCompositorOwned:
		return "compositor-owned"
	default:
		return "unknown"
	}
}

// queue is a FIFO of buffer IDs. Pools hold at most three buffers, so
// shifting in place is cheaper than a ring.
type queue []buffer.ID

func (q *queue) pushBack(id buffer.ID) {
	*q = append(*q, id)
}

func (q *queue) popFront() buffer.ID {
	old := *q
	id := old[0]
	copy(old, old[1:])
	*q = old[:len(old)-1]
	return id
}

func (q *queue) popBack() buffer.ID {
	old := *q
	id := old[len(old)-1]
	*q = old[:len(old)-1]
	return id
}

func (q queue) clone() []buffer.ID {
	out := make([]buffer.ID, len(q))
	copy(out, q)
	return out
}
