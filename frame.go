package compositor

import (
	"sync/atomic"

	"github.com/gogpu/compositor/buffer"
)

// Frame is a buffer checked out from a swap chain by the client or the
// compositor. Holding a Frame confers exclusive access to the buffer's
// pixels until Release.
type Frame struct {
	buf      *buffer.Buffer
	release  func(buffer.ID) error
	released atomic.Bool
}

// Buffer returns the checked-out buffer.
func (f *Frame) Buffer() *buffer.Buffer {
	return f.buf
}

// ID returns the ID of the checked-out buffer.
func (f *Frame) ID() buffer.ID {
	return f.buf.ID()
}

// Release returns the buffer to the swap chain. Once a Release succeeds,
// further calls return ErrFrameReleased and have no effect. A failed
// Release leaves the frame checked out and returns the swap chain error.
func (f *Frame) Release() error {
	if !f.released.CompareAndSwap(false, true) {
		return ErrFrameReleased
	}
	if err := f.release(f.buf.ID()); err != nil {
		f.released.Store(false)
		return err
	}
	return nil
}
