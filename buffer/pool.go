// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"fmt"
)

// Pool bounds.
const (
	MinPoolSize = 2
	MaxPoolSize = 3
)

// Pool is the fixed set of buffers of one swap chain.
//
// A pool is built once with 2 (double buffering) or 3 (triple buffering)
// buffers and never resized. It only maps IDs to buffers; callers
// serialize access through the swap coordinator.
type Pool struct {
	buffers map[ID]*Buffer
	order   []ID
}

// NewPool creates a pool from 2 or 3 interchangeable buffers.
func NewPool(buffers ...*Buffer) (*Pool, error) {
	switch {
	case len(buffers) < MinPoolSize:
		return nil, fmt.Errorf("%w: got %d", ErrTooFewBuffers, len(buffers))
	case len(buffers) > MaxPoolSize:
		return nil, fmt.Errorf("%w: got %d", ErrTooManyBuffers, len(buffers))
	}

	p := &Pool{
		buffers: make(map[ID]*Buffer, len(buffers)),
		order:   make([]ID, 0, len(buffers)),
	}

	var first Spec
	for i, b := range buffers {
		if b == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilBuffer, i)
		}
		if _, dup := p.buffers[b.id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, b.id)
		}
		spec := b.Spec()
		if i == 0 {
			first = spec
		} else if spec != first {
			return nil, fmt.Errorf("%w: %s is %dx%d %v, want %dx%d %v",
				ErrMismatchedBuffers, b.id,
				spec.Width, spec.Height, spec.Format,
				first.Width, first.Height, first.Format)
		}
		p.buffers[b.id] = b
		p.order = append(p.order, b.id)
	}
	return p, nil
}

// Get returns the buffer with the given ID.
func (p *Pool) Get(id ID) (*Buffer, bool) {
	b, ok := p.buffers[id]
	return b, ok
}

// IDs returns the buffer IDs in construction order.
func (p *Pool) IDs() []ID {
	ids := make([]ID, len(p.order))
	copy(ids, p.order)
	return ids
}

// Len returns the number of buffers in the pool.
func (p *Pool) Len() int {
	return len(p.order)
}

// Spec returns the shared spec of the pool's buffers.
func (p *Pool) Spec() Spec {
	return p.buffers[p.order[0]].Spec()
}

// Close releases the storage of every buffer.
func (p *Pool) Close() error {
	buffers := make([]*Buffer, 0, len(p.order))
	for _, id := range p.order {
		buffers = append(buffers, p.buffers[id])
	}
	return closeAll(buffers)
}
