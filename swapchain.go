package compositor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/compositor/buffer"
	"github.com/gogpu/compositor/internal/swap"
)

// Stats counts swap chain operations. See [SwapChain.Stats].
type Stats = swap.Stats

// Snapshot is a consistent copy of the swap chain queues and checkouts.
// See [SwapChain.Snapshot].
type Snapshot = swap.Snapshot

// SwapChain governs the buffer circulation of one surface: the buffer
// pool, the coordinator and the client and compositor handles.
//
// SwapChain is safe for concurrent use. The client handle is meant for the
// rendering goroutine and the compositor handle for the compositing
// goroutine; Shutdown and Close may be called from any goroutine.
type SwapChain struct {
	id    uuid.UUID
	pool  *buffer.Pool
	coord *swap.Coordinator
	log   *slog.Logger

	client     *ClientHandle
	compositor *CompositorHandle

	closeOnce sync.Once
	closeErr  error
}

// New allocates the buffers of a swap chain from alloc and builds the chain.
// All buffers share spec. The buffer count defaults to 3; see WithBufferCount.
func New(alloc buffer.Allocator, spec buffer.Spec, opts ...Option) (*SwapChain, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case o.bufferCount < buffer.MinPoolSize:
		return nil, fmt.Errorf("%w: got %d", buffer.ErrTooFewBuffers, o.bufferCount)
	case o.bufferCount > buffer.MaxPoolSize:
		return nil, fmt.Errorf("%w: got %d", buffer.ErrTooManyBuffers, o.bufferCount)
	}

	buffers, err := buffer.AllocateN(alloc, o.bufferCount, spec)
	if err != nil {
		return nil, fmt.Errorf("compositor: allocate buffers: %w", err)
	}

	sc, err := newSwapChain(buffers, o)
	if err != nil {
		for _, b := range buffers {
			err = errors.Join(err, b.Storage().Close())
		}
		return nil, err
	}
	return sc, nil
}

// NewFromBuffers builds a swap chain over 2 or 3 pre-allocated buffers.
// The swap chain takes ownership of the buffers' storage and closes it in Close.
func NewFromBuffers(buffers []*buffer.Buffer, opts ...Option) (*SwapChain, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newSwapChain(buffers, o)
}

func newSwapChain(buffers []*buffer.Buffer, o chainOptions) (*SwapChain, error) {
	pool, err := buffer.NewPool(buffers...)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	log := chainLogger(o.logger, id)

	coordOpts := []swap.Option{swap.WithLogger(log)}
	if o.eagerWake {
		coordOpts = append(coordOpts, swap.WithEagerWake())
	}
	coord, err := swap.New(pool.IDs(), coordOpts...)
	if err != nil {
		return nil, err
	}

	sc := &SwapChain{
		id:    id,
		pool:  pool,
		coord: coord,
		log:   log,
	}
	sc.client = &ClientHandle{chain: sc}
	sc.compositor = &CompositorHandle{chain: sc}

	spec := pool.Spec()
	log.Info("compositor: swap chain created",
		"buffers", pool.Len(),
		"width", spec.Width,
		"height", spec.Height,
		"format", spec.Format,
		"eager_wake", o.eagerWake)
	return sc, nil
}

// ID returns the unique identifier of this swap chain.
func (sc *SwapChain) ID() uuid.UUID {
	return sc.id
}

// Len returns the number of buffers in the chain.
func (sc *SwapChain) Len() int {
	return sc.pool.Len()
}

// Spec returns the size and format shared by the chain's buffers.
func (sc *SwapChain) Spec() buffer.Spec {
	return sc.pool.Spec()
}

// Lookup returns the buffer with the given ID.
func (sc *SwapChain) Lookup(id buffer.ID) (*buffer.Buffer, bool) {
	return sc.pool.Get(id)
}

// Client returns the handle used by the rendering path.
func (sc *SwapChain) Client() *ClientHandle {
	return sc.client
}

// Compositor returns the handle used by the compositing path.
func (sc *SwapChain) Compositor() *CompositorHandle {
	return sc.compositor
}

// Stats returns the operation counters.
func (sc *SwapChain) Stats() Stats {
	return sc.coord.Stats()
}

// Snapshot returns a consistent copy of the queues and checkouts.
func (sc *SwapChain) Snapshot() Snapshot {
	return sc.coord.Snapshot()
}

// Validate checks that every buffer is accounted for exactly once and that
// the client does not hold the whole pool.
func (sc *SwapChain) Validate() error {
	return sc.coord.Snapshot().Validate(sc.pool.IDs())
}

// Shutdown unblocks every waiting client acquire and refuses new
// checkouts. It is idempotent and safe to call from any goroutine.
func (sc *SwapChain) Shutdown() {
	if sc.coord.Shutdown() {
		sc.log.Info("compositor: swap chain shut down")
	}
}

// Close shuts the chain down and releases the storage of every buffer.
// Frames still checked out must not be accessed after Close.
// Close is idempotent; multiple calls return the first result.
func (sc *SwapChain) Close() error {
	sc.closeOnce.Do(func() {
		sc.Shutdown()
		sc.closeErr = sc.pool.Close()
		sc.log.Info("compositor: swap chain closed", "stats", sc.coord.Stats())
	})
	return sc.closeErr
}

// frame wraps a checked-out buffer.
func (sc *SwapChain) frame(id buffer.ID, release func(buffer.ID) error) *Frame {
	b, _ := sc.pool.Get(id)
	return &Frame{buf: b, release: release}
}
