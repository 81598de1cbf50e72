// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Allocator supplies backing storage for swap chain buffers.
//
// Allocator is the boundary to the platform: the swap chain calls it N
// times at construction with the same Spec and never again.
type Allocator interface {
	Allocate(spec Spec) (Storage, error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(spec Spec) (Storage, error)

// Allocate calls f(spec).
func (f AllocatorFunc) Allocate(spec Spec) (Storage, error) {
	return f(spec)
}

// AllocateN allocates n buffers of identical spec with IDs 1..n.
// On failure every storage allocated so far is closed.
func AllocateN(a Allocator, n int, spec Spec) ([]*Buffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	buffers := make([]*Buffer, 0, n)
	for i := range n {
		s, err := a.Allocate(spec)
		if err != nil {
			return nil, errors.Join(
				fmt.Errorf("buffer: allocate %d of %d: %w", i+1, n, err),
				closeAll(buffers),
			)
		}
		//nolint:gosec // G115: n is bounded by pool size
		buffers = append(buffers, New(ID(i+1), s))
	}
	return buffers, nil
}

func closeAll(buffers []*Buffer) error {
	var errs []error
	for _, b := range buffers {
		if b.storage == nil {
			continue
		}
		if err := b.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("buffer: close %s: %w", b.id, err))
		}
	}
	return errors.Join(errs...)
}

// cpuFormat resolves Undefined to RGBA8Unorm and rejects formats without a
// CPU memory layout.
func cpuFormat(f gputypes.TextureFormat) (gputypes.TextureFormat, error) {
	if f == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatRGBA8Unorm, nil
	}
	if BytesPerPixel(f) == 0 {
		return f, fmt.Errorf("%w: format %v has no CPU layout", ErrInvalidSpec, f)
	}
	return f, nil
}

// PixmapAllocator allocates CPU storage backed by *image.RGBA.
type PixmapAllocator struct{}

// Allocate creates a PixmapStorage for spec.
func (PixmapAllocator) Allocate(spec Spec) (Storage, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	format, err := cpuFormat(spec.Format)
	if err != nil {
		return nil, err
	}
	return NewPixmapStorage(spec.Width, spec.Height, format)
}
