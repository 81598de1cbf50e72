package compositor

import "github.com/gogpu/compositor/buffer"

// CompositorHandle is the compositing path's view of a swap chain.
//
// Compositor acquires never block: they return the oldest frame the
// client finished, or the most recent client buffer when no new frame is
// queued.
type CompositorHandle struct {
	chain *SwapChain
}

// Acquire checks out a buffer for compositing without blocking.
//
// It returns ErrNoBuffer if the compositor already holds every buffer the
// client does not, and ErrShutdown after Shutdown.
func (h *CompositorHandle) Acquire() (*Frame, error) {
	id, err := h.chain.coord.CompositorAcquire()
	if err != nil {
		return nil, err
	}
	return h.chain.frame(id, h.chain.coord.CompositorRelease), nil
}

// Composite acquires a buffer, calls fn with it, and returns it to the
// client on every exit path, including a panic in fn.
func (h *CompositorHandle) Composite(fn func(*buffer.Buffer) error) (err error) {
	f, err := h.Acquire()
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
