// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"strconv"

	"github.com/gogpu/gputypes"
)

// ID identifies a buffer within its pool. IDs are never reused while the
// buffer is live.
type ID uint32

// String returns a short label such as "buffer-2".
func (id ID) String() string {
	return "buffer-" + strconv.FormatUint(uint64(id), 10)
}

// Storage is the backing pixel memory of a buffer.
//
// Storage may be CPU-visible (Pixels returns the bytes), GPU-only
// (Pixels returns nil), or both. Storage is not synchronized: exclusive
// access is conferred by holding the owning buffer's checkout.
type Storage interface {
	// Width returns the width in pixels.
	Width() int

	// Height returns the height in pixels.
	Height() int

	// Format returns the pixel format tag.
	Format() gputypes.TextureFormat

	// Stride returns the number of bytes per row, or 0 for GPU-only storage.
	Stride() int

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only storage.
	Pixels() []byte

	// Close releases the backing memory. Close is idempotent.
	Close() error
}

// Buffer is a fixed-size unit of pixel storage with a stable identity.
type Buffer struct {
	id      ID
	storage Storage
}

// New creates a buffer with the given identity and backing storage.
func New(id ID, storage Storage) *Buffer {
	return &Buffer{id: id, storage: storage}
}

// ID returns the buffer identity.
func (b *Buffer) ID() ID {
	return b.id
}

// Storage returns the backing storage.
func (b *Buffer) Storage() Storage {
	return b.storage
}

// Spec returns the dimensions and format of the backing storage.
func (b *Buffer) Spec() Spec {
	if b.storage == nil {
		return Spec{}
	}
	return Spec{
		Width:  b.storage.Width(),
		Height: b.storage.Height(),
		Format: b.storage.Format(),
	}
}

// Spec describes the storage every buffer of a swap chain is allocated with.
type Spec struct {
	// Width is the buffer width in pixels.
	Width int

	// Height is the buffer height in pixels.
	Height int

	// Format is the pixel format. Undefined lets the allocator choose.
	Format gputypes.TextureFormat
}

// Validate reports whether the dimensions are positive.
func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return ErrInvalidSpec
	}
	return nil
}

// Extent returns the size as a single-layer GPU extent.
func (s Spec) Extent() gputypes.Extent3D {
	//nolint:gosec // G115: Validate guarantees positive dimensions
	return gputypes.Extent3D{
		Width:              uint32(s.Width),
		Height:             uint32(s.Height),
		DepthOrArrayLayers: 1,
	}
}

// BytesPerPixel returns the pixel size of the CPU-addressable formats,
// or 0 for formats this package cannot lay out in memory.
func BytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}
