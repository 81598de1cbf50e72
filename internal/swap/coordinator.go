// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swap

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/compositor/buffer"
)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	eagerWake bool
	logger    *slog.Logger
}

// WithEagerWake makes ClientRelease signal a waiting ClientAcquire.
//
// By default only CompositorRelease wakes client waiters. A client release
// can unblock a waiter only when the client runs more than one acquiring
// goroutine, and the next compositor release signals anyway, so the
// default coalesces those wakeups.
func WithEagerWake() Option {
	return func(o *options) {
		o.eagerWake = true
	}
}

// WithLogger sets the logger for coordinator diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Coordinator serializes buffer checkouts between a client and a compositor.
//
// Coordinator is safe for concurrent use. Each swap chain owns its own
// coordinator; there is no shared state between instances.
type Coordinator struct {
	mu   sync.Mutex
	cond *sync.Cond // client waiters

	n                 int
	clientReady       queue
	compositorReady   queue
	clientOutstanding int
	state             map[buffer.ID]State
	closed            bool

	eagerWake bool
	log       *slog.Logger
	stats     Stats
}

// New creates a coordinator for the given pool IDs. All buffers start
// queued for the client in the given order.
func New(ids []buffer.ID, opts ...Option) (*Coordinator, error) {
	switch {
	case len(ids) < buffer.MinPoolSize:
		return nil, fmt.Errorf("%w: got %d", buffer.ErrTooFewBuffers, len(ids))
	case len(ids) > buffer.MaxPoolSize:
		return nil, fmt.Errorf("%w: got %d", buffer.ErrTooManyBuffers, len(ids))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	c := &Coordinator{
		n:               len(ids),
		clientReady:     make(queue, 0, len(ids)),
		compositorReady: make(queue, 0, len(ids)),
		state:           make(map[buffer.ID]State, len(ids)),
		eagerWake:       o.eagerWake,
		log:             o.logger,
	}
	c.cond = sync.NewCond(&c.mu)

	for _, id := range ids {
		if _, dup := c.state[id]; dup {
			return nil, fmt.Errorf("%w: %s", buffer.ErrDuplicateID, id)
		}
		c.state[id] = StateClientReady
		c.clientReady.pushBack(id)
	}
	return c, nil
}

// Len returns the pool size N.
func (c *Coordinator) Len() int {
	return c.n
}

// ClientAcquire checks out the oldest client-ready buffer.
//
// It blocks until a buffer is queued for the client and the client holds
// fewer than N-1 buffers. There is no timeout; the only escape is Shutdown,
// after which ClientAcquire returns ErrShutdown.
func (c *Coordinator) ClientAcquire() (buffer.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	waited := false
	for !c.closed && !c.clientCanAcquire() {
		if !waited {
			waited = true
			c.stats.ClientWaits++
			c.log.Debug("swap: client waiting for buffer",
				"client_ready", len(c.clientReady),
				"client_outstanding", c.clientOutstanding)
		}
		c.cond.Wait()
	}
	if c.closed {
		return 0, ErrShutdown
	}

	id := c.clientReady.popFront()
	c.clientOutstanding++
	c.state[id] = StateClientOwned
	c.stats.ClientAcquires++

	// A single signal may have covered more than one newly acquirable
	// buffer; pass it on.
	if c.clientCanAcquire() {
		c.cond.Signal()
	}
	return id, nil
}

func (c *Coordinator) clientCanAcquire() bool {
	return len(c.clientReady) > 0 && c.clientOutstanding < c.n-1
}

// ClientRelease queues a client-owned buffer for the compositor.
//
// The buffer does not return to the client until the compositor has
// consumed and released it.
func (c *Coordinator) ClientRelease(id buffer.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOwner(id, StateClientOwned); err != nil {
		return err
	}

	c.compositorReady.pushBack(id)
	c.state[id] = StateCompositorReady
	c.clientOutstanding--
	c.stats.ClientReleases++

	if c.eagerWake {
		c.cond.Signal()
	}
	return nil
}

// CompositorAcquire checks out a buffer for compositing without blocking.
//
// It takes the oldest compositor-ready buffer. If none is queued it steals
// the newest client-ready buffer, so the compositor always has something
// to display. ErrNoBuffer means the compositor already holds every buffer
// the client does not.
func (c *Coordinator) CompositorAcquire() (buffer.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrShutdown
	}

	var id buffer.ID
	switch {
	case len(c.compositorReady) > 0:
		id = c.compositorReady.popFront()
	case len(c.clientReady) > 0:
		id = c.clientReady.popBack()
		c.stats.Steals++
		c.log.Debug("swap: compositor reusing client buffer", "buffer", id)
	default:
		c.log.Warn("swap: compositor acquire with no buffer available",
			"client_outstanding", c.clientOutstanding)
		return 0, ErrNoBuffer
	}

	c.state[id] = StateCompositorOwned
	c.stats.CompositorAcquires++
	return id, nil
}

// CompositorRelease returns a compositor-owned buffer to the client and
// wakes one waiting ClientAcquire.
func (c *Coordinator) CompositorRelease(id buffer.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOwner(id, StateCompositorOwned); err != nil {
		return err
	}

	c.clientReady.pushBack(id)
	c.state[id] = StateClientReady
	c.stats.CompositorReleases++
	c.cond.Signal()
	return nil
}

// Shutdown wakes every waiter and refuses further acquires.
//
// If nothing is queued for the client, the oldest compositor-ready buffer
// is moved back to the client queue first. Releases stay legal so that
// outstanding checkouts can be returned. Shutdown is idempotent and may be
// called from any goroutine; it reports whether this call closed the
// coordinator.
func (c *Coordinator) Shutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true
	c.stats.Shutdown = true

	if len(c.clientReady) == 0 && len(c.compositorReady) > 0 {
		id := c.compositorReady.popFront()
		c.clientReady.pushBack(id)
		c.state[id] = StateClientReady
	}

	c.cond.Broadcast()
	return true
}

// Closed reports whether Shutdown has been called.
func (c *Coordinator) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// State returns the current state of a buffer.
func (c *Coordinator) State(id buffer.ID) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.state[id]
	return s, ok
}

// checkOwner reports a contract violation if id is not in state want.
// Must be called with lock held.
func (c *Coordinator) checkOwner(id buffer.ID, want State) error {
	got, ok := c.state[id]
	if !ok {
		c.log.Warn("swap: release of unknown buffer", "buffer", id)
		return fmt.Errorf("%w: %s", ErrUnknownBuffer, id)
	}
	if got != want {
		c.log.Warn("swap: release of buffer not owned",
			"buffer", id, "state", got.String(), "want", want.String())
		return fmt.Errorf("%w: %s is %s, want %s", ErrNotOwned, id, got, want)
	}
	return nil
}
