// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import "errors"

// Pool construction errors.
var (
	// ErrTooFewBuffers is returned when a pool is built from fewer than two
	// buffers. With a single buffer one side would block the other forever.
	ErrTooFewBuffers = errors.New("buffer: pool needs at least 2 buffers")

	// ErrTooManyBuffers is returned when a pool is built from more than three buffers.
	ErrTooManyBuffers = errors.New("buffer: pool holds at most 3 buffers")

	// ErrNilBuffer is returned when a nil buffer is passed to NewPool.
	ErrNilBuffer = errors.New("buffer: nil buffer")

	// ErrDuplicateID is returned when two buffers in a pool share an ID.
	ErrDuplicateID = errors.New("buffer: duplicate buffer id")

	// ErrMismatchedBuffers is returned when pool buffers differ in size or format.
	ErrMismatchedBuffers = errors.New("buffer: buffers differ in size or format")
)

// Allocation errors.
var (
	// ErrInvalidSpec is returned for non-positive dimensions or an
	// unsupported pixel format.
	ErrInvalidSpec = errors.New("buffer: invalid buffer spec")

	// ErrShmUnsupported is returned by ShmAllocator on platforms without memfd.
	ErrShmUnsupported = errors.New("buffer: shared memory not supported on this platform")

	// ErrNoDevice is returned by TextureAllocator when the host provides no GPU device.
	ErrNoDevice = errors.New("buffer: no GPU device available")

	// ErrNoAllocatorAvailable is returned when no registered allocator is available.
	ErrNoAllocatorAvailable = errors.New("buffer: no allocator available")

	// ErrAllocatorNotFound is returned when a named allocator is not registered.
	ErrAllocatorNotFound = errors.New("buffer: allocator not found")

	// ErrAllocatorUnavailable is returned when a named allocator is registered
	// but not available on this system.
	ErrAllocatorUnavailable = errors.New("buffer: allocator not available")
)
