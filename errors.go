package compositor

import (
	"errors"

	"github.com/gogpu/compositor/internal/swap"
)

// Errors returned by swap chain operations. Use errors.Is to test for them.
var (
	// ErrShutdown is returned by acquires after Shutdown, including client
	// acquires that were waiting when Shutdown was called.
	ErrShutdown = swap.ErrShutdown

	// ErrNotOwned is returned when a side releases a buffer it does not hold.
	ErrNotOwned = swap.ErrNotOwned

	// ErrUnknownBuffer is returned when releasing an ID outside the pool.
	ErrUnknownBuffer = swap.ErrUnknownBuffer

	// ErrNoBuffer is returned by a compositor acquire while the compositor
	// already holds every buffer the client does not.
	ErrNoBuffer = swap.ErrNoBuffer

	// ErrFrameReleased is returned when a frame is released twice.
	ErrFrameReleased = errors.New("compositor: frame already released")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("compositor: invalid config")
)
