// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"image"

	"github.com/gogpu/gputypes"
)

// PixmapStorage is CPU-backed storage using *image.RGBA.
//
// The image memory is laid out as 4 bytes per pixel in the order given by
// Format. For BGRA8Unorm the R and B channels of the *image.RGBA view are
// swapped; use the pattern package to read and write colors portably.
type PixmapStorage struct {
	img    *image.RGBA
	format gputypes.TextureFormat
}

// NewPixmapStorage creates CPU storage of the given size and format.
// The format must be RGBA8Unorm or BGRA8Unorm.
func NewPixmapStorage(width, height int, format gputypes.TextureFormat) (*PixmapStorage, error) {
	if width <= 0 || height <= 0 || BytesPerPixel(format) != 4 {
		return nil, ErrInvalidSpec
	}
	return &PixmapStorage{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		format: format,
	}, nil
}

// NewPixmapStorageFromImage wraps an existing *image.RGBA as RGBA8Unorm storage.
// The image is used directly without copying.
func NewPixmapStorageFromImage(img *image.RGBA) *PixmapStorage {
	return &PixmapStorage{img: img, format: gputypes.TextureFormatRGBA8Unorm}
}

// Width returns the storage width in pixels.
func (s *PixmapStorage) Width() int {
	return s.img.Bounds().Dx()
}

// Height returns the storage height in pixels.
func (s *PixmapStorage) Height() int {
	return s.img.Bounds().Dy()
}

// Format returns the pixel format.
func (s *PixmapStorage) Format() gputypes.TextureFormat {
	return s.format
}

// Stride returns the number of bytes per row.
func (s *PixmapStorage) Stride() int {
	return s.img.Stride
}

// Pixels returns direct access to the pixel data.
func (s *PixmapStorage) Pixels() []byte {
	return s.img.Pix
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the storage.
func (s *PixmapStorage) Image() *image.RGBA {
	return s.img
}

// Close is a no-op; the memory is reclaimed by the garbage collector.
func (s *PixmapStorage) Close() error {
	return nil
}

// Ensure PixmapStorage implements Storage.
var _ Storage = (*PixmapStorage)(nil)
