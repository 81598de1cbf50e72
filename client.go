package compositor

import (
	"context"
	"sync"

	"github.com/gogpu/compositor/buffer"
)

// ClientHandle is the rendering path's view of a swap chain.
//
// Client acquires block while the client holds all but one buffer or no
// buffer is queued for it. Acquire calls on one handle should come from a
// single goroutine at a time.
type ClientHandle struct {
	chain *SwapChain

	mu sync.Mutex
	// pending holds an acquire abandoned by AcquireContext. The next
	// acquire takes its result instead of starting a new one.
	pending chan acquireResult
}

type acquireResult struct {
	id  buffer.ID
	err error
}

// Acquire checks out the next buffer for rendering, blocking until one
// can be taken without starving the compositor. After Shutdown it
// returns ErrShutdown.
func (h *ClientHandle) Acquire() (*Frame, error) {
	return h.AcquireContext(context.Background())
}

// AcquireContext is Acquire with a caller deadline.
//
// If ctx ends first, AcquireContext returns ctx.Err(). The underlying
// acquire keeps waiting; its buffer is handed to the next Acquire or
// AcquireContext call, so no checkout is lost. After Shutdown that buffer
// is released instead and the call returns ErrShutdown.
func (h *ClientHandle) AcquireContext(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	ch := h.pending
	h.pending = nil
	h.mu.Unlock()

	parked := ch != nil
	if !parked {
		ch = make(chan acquireResult, 1)
		if ctx.Done() == nil {
			// Background context: no need for a goroutine.
			id, err := h.chain.coord.ClientAcquire()
			ch <- acquireResult{id, err}
		} else {
			go func() {
				id, err := h.chain.coord.ClientAcquire()
				ch <- acquireResult{id, err}
			}()
		}
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		if parked && h.chain.coord.Closed() {
			// The abandoned acquire finished before Shutdown; its buffer
			// belongs to a chain that no longer hands out checkouts.
			if err := h.chain.coord.ClientRelease(r.id); err != nil {
				h.chain.log.Warn("compositor: release of parked client buffer failed",
					"buffer", r.id, "err", err)
			}
			return nil, ErrShutdown
		}
		return h.chain.frame(r.id, h.chain.coord.ClientRelease), nil
	case <-ctx.Done():
		h.park(ch)
		return nil, ctx.Err()
	}
}

// park stores an abandoned acquire for the next caller. If another one is
// already parked, the extra result is released straight back.
func (h *ClientHandle) park(ch chan acquireResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		h.pending = ch
		return
	}
	go func() {
		r := <-ch
		if r.err != nil {
			return
		}
		if err := h.chain.coord.ClientRelease(r.id); err != nil {
			h.chain.log.Warn("compositor: release of abandoned client buffer failed",
				"buffer", r.id, "err", err)
		}
	}()
}

// Render acquires a buffer, calls fn with it, and releases it to the
// compositor on every exit path, including a panic in fn.
func (h *ClientHandle) Render(fn func(*buffer.Buffer) error) error {
	return h.RenderContext(context.Background(), fn)
}

// RenderContext is Render with a caller deadline on the acquire.
func (h *ClientHandle) RenderContext(ctx context.Context, fn func(*buffer.Buffer) error) (err error) {
	f, err := h.AcquireContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := f.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(f.Buffer())
}
