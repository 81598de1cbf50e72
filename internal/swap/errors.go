// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swap

import "errors"

var (
	// ErrShutdown is returned by acquire operations once Shutdown was called,
	// including to client waiters woken by Shutdown.
	ErrShutdown = errors.New("swap: coordinator shutting down")

	// ErrNotOwned is returned when a side releases a buffer it does not hold.
	ErrNotOwned = errors.New("swap: buffer not owned by releasing side")

	// ErrUnknownBuffer is returned when releasing an ID outside the pool.
	ErrUnknownBuffer = errors.New("swap: unknown buffer")

	// ErrNoBuffer is returned by CompositorAcquire when both queues are
	// empty, meaning the compositor already holds every buffer the client
	// does not.
	ErrNoBuffer = errors.New("swap: no buffer available to compositor")
)
