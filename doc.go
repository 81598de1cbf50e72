// Package compositor provides the buffer swap chain at the core of a
// display-server compositor.
//
// # Overview
//
// A swap chain circulates a small fixed pool of buffers (2 for double
// buffering, 3 for triple buffering) between a client that renders a
// surface and the compositor that reads it. The client side blocks when
// taking another buffer would leave the compositor nothing to show; the
// compositor side never blocks and falls back to the most recent buffer
// when no new frame is queued.
//
// # Quick Start
//
//	import "github.com/gogpu/compositor"
//
//	sc, err := compositor.New(buffer.PixmapAllocator{},
//	    buffer.Spec{Width: 800, Height: 600},
//	    compositor.WithBufferCount(3))
//	if err != nil {
//	    return err
//	}
//	defer sc.Close()
//
//	// Client goroutine
//	err = sc.Client().Render(func(b *buffer.Buffer) error {
//	    return pattern.Solid{Color: color.RGBA{255, 0, 0, 255}}.Draw(b)
//	})
//
//	// Compositor goroutine
//	err = sc.Compositor().Composite(func(b *buffer.Buffer) error {
//	    return pattern.Blit(screen, screen.Bounds(), b)
//	})
//
// # Ownership
//
// Holding a [Frame] confers exclusive access to its buffer's pixels; the
// swap chain guarantees a buffer is never checked out by both sides at
// once. Render and Composite release the frame on every exit path.
//
// # Shutdown
//
// [SwapChain.Shutdown] unblocks every waiting client acquire, which then
// returns [ErrShutdown]. Acquires after shutdown fail; releases of frames
// still held remain legal.
//
// # Architecture
//
// The module is organized into:
//   - buffer: buffer identity, storage backends, allocators, the pool
//   - internal/swap: the coordinator (queues, starvation guard, shutdown)
//   - pattern: fill/check patterns and compositor blits
//   - compositor (this package): swap chain, client and compositor handles
package compositor
