// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pattern draws and verifies buffer contents.
//
// Patterns are used by clients to fill buffers and by tests and
// diagnostics to check that the compositor sees what the client drew.
// Only CPU-accessible storage with a 4 byte RGBA or BGRA layout is
// supported.
package pattern

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compositor/buffer"
)

var (
	// ErrNotCPUAccessible is returned for storage without CPU pixels.
	ErrNotCPUAccessible = errors.New("pattern: buffer has no CPU pixels")

	// ErrUnsupportedFormat is returned for formats other than RGBA8 and BGRA8.
	ErrUnsupportedFormat = errors.New("pattern: unsupported pixel format")
)

// Pattern draws into a buffer and checks whether a buffer holds it.
type Pattern interface {
	Draw(b *buffer.Buffer) error
	Check(b *buffer.Buffer) (bool, error)
}

// View returns an *image.RGBA sharing memory with the buffer's pixels.
// For BGRA8Unorm buffers the R and B channels of the view are swapped.
func View(b *buffer.Buffer) (*image.RGBA, error) {
	s := b.Storage()
	if s == nil || s.Pixels() == nil {
		return nil, ErrNotCPUAccessible
	}
	if buffer.BytesPerPixel(s.Format()) != 4 {
		return nil, ErrUnsupportedFormat
	}
	return &image.RGBA{
		Pix:    s.Pixels(),
		Stride: s.Stride(),
		Rect:   image.Rect(0, 0, s.Width(), s.Height()),
	}, nil
}

// toStorage converts an RGBA color to the memory order of format.
func toStorage(c color.RGBA, format gputypes.TextureFormat) color.RGBA {
	if format == gputypes.TextureFormatBGRA8Unorm {
		c.R, c.B = c.B, c.R
	}
	return c
}

// Solid fills the whole buffer with one color.
type Solid struct {
	Color color.RGBA
}

// Draw fills the buffer.
func (p Solid) Draw(b *buffer.Buffer) error {
	img, err := View(b)
	if err != nil {
		return err
	}
	c := toStorage(p.Color, b.Storage().Format())
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return nil
}

// Check reports whether every pixel of the buffer has the pattern color.
func (p Solid) Check(b *buffer.Buffer) (bool, error) {
	img, err := View(b)
	if err != nil {
		return false, err
	}
	c := toStorage(p.Color, b.Storage().Format())
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+bounds.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] != c.R || row[i+1] != c.G || row[i+2] != c.B || row[i+3] != c.A {
				return false, nil
			}
		}
	}
	return true, nil
}

var _ Pattern = Solid{}

// Stamp writes seq into the first pixel of the buffer so a reader can tell
// which frame a buffer holds.
func Stamp(b *buffer.Buffer, seq uint32) error {
	img, err := View(b)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(img.Pix[0:4], seq)
	return nil
}

// ReadStamp returns the sequence number written by Stamp.
func ReadStamp(b *buffer.Buffer) (uint32, error) {
	img, err := View(b)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(img.Pix[0:4]), nil
}
