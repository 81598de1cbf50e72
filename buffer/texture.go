// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// TextureStorage is GPU-only storage wrapping a texture created by the host.
//
// The handle is opaque to this package. If it has a Destroy method it is
// called on Close.
type TextureStorage struct {
	handle any
	width  int
	height int
	format gputypes.TextureFormat
	closed bool
}

// NewTextureStorage wraps a host texture handle.
func NewTextureStorage(handle any, width, height int, format gputypes.TextureFormat) *TextureStorage {
	return &TextureStorage{
		handle: handle,
		width:  width,
		height: height,
		format: format,
	}
}

// Width returns the texture width in pixels.
func (t *TextureStorage) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *TextureStorage) Height() int { return t.height }

// Format returns the texture pixel format.
func (t *TextureStorage) Format() gputypes.TextureFormat { return t.format }

// Stride returns 0 as the texture has no CPU layout.
func (t *TextureStorage) Stride() int { return 0 }

// Pixels returns nil as this is GPU-only storage.
func (t *TextureStorage) Pixels() []byte { return nil }

// Handle returns the host texture handle.
func (t *TextureStorage) Handle() any { return t.handle }

// Close destroys the texture. Close is idempotent.
func (t *TextureStorage) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if d, ok := t.handle.(interface{ Destroy() }); ok {
		d.Destroy()
	}
	return nil
}

var _ Storage = (*TextureStorage)(nil)

// TextureFactory creates a texture on device matching spec.
// spec.Format is already resolved when the factory is called.
type TextureFactory func(device gpucontext.Device, spec Spec) (any, error)

// TextureAllocator imports GPU textures from the host application.
//
// The allocator receives the device from the host; it never creates one.
// An Undefined spec format resolves to the provider's surface format.
type TextureAllocator struct {
	// Provider supplies the shared GPU device.
	Provider gpucontext.DeviceProvider

	// Create builds one texture per call.
	Create TextureFactory
}

// Allocate creates a TextureStorage for spec.
func (a TextureAllocator) Allocate(spec Spec) (Storage, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if a.Provider == nil || a.Provider.Device() == nil || a.Create == nil {
		return nil, ErrNoDevice
	}
	if spec.Format == gputypes.TextureFormatUndefined {
		spec.Format = a.Provider.SurfaceFormat()
	}
	if spec.Format == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w: provider has no surface format", ErrInvalidSpec)
	}

	handle, err := a.Create(a.Provider.Device(), spec)
	if err != nil {
		return nil, fmt.Errorf("buffer: create texture %dx%d: %w", spec.Width, spec.Height, err)
	}
	return NewTextureStorage(handle, spec.Width, spec.Height, spec.Format), nil
}
