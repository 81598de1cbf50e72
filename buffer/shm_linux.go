// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package buffer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/sys/unix"
)

// ShmStorage is storage in an anonymous memfd mapped into this process.
//
// The file descriptor can be passed to a client process (for example as
// a wl_shm pool) so both sides share the same pixels.
type ShmStorage struct {
	fd     int
	data   []byte
	width  int
	height int
	stride int
	format gputypes.TextureFormat
}

// NewShmStorage creates shared memory storage of the given size and format.
func NewShmStorage(width, height int, format gputypes.TextureFormat) (*ShmStorage, error) {
	bpp := BytesPerPixel(format)
	if width <= 0 || height <= 0 || bpp == 0 {
		return nil, ErrInvalidSpec
	}
	stride := width * bpp
	size := stride * height

	fd, err := unix.MemfdCreate("gogpu-compositor", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("buffer: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("buffer: ftruncate %d bytes: %w", size, err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("buffer: mmap %d bytes: %w", size, err)
	}

	return &ShmStorage{
		fd:     fd,
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the storage width in pixels.
func (s *ShmStorage) Width() int { return s.width }

// Height returns the storage height in pixels.
func (s *ShmStorage) Height() int { return s.height }

// Format returns the pixel format.
func (s *ShmStorage) Format() gputypes.TextureFormat { return s.format }

// Stride returns the number of bytes per row.
func (s *ShmStorage) Stride() int { return s.stride }

// Pixels returns the mapped memory, or nil after Close.
func (s *ShmStorage) Pixels() []byte { return s.data }

// FD returns the memfd file descriptor, or -1 after Close.
func (s *ShmStorage) FD() int { return s.fd }

// Close unmaps the memory and closes the file descriptor.
func (s *ShmStorage) Close() error {
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			return fmt.Errorf("buffer: munmap: %w", err)
		}
		s.data = nil
	}
	if s.fd >= 0 {
		if err := unix.Close(s.fd); err != nil {
			return fmt.Errorf("buffer: close memfd: %w", err)
		}
		s.fd = -1
	}
	return nil
}

// ShmAllocator allocates anonymous shared memory storage.
type ShmAllocator struct{}

// Allocate creates a ShmStorage for spec.
func (ShmAllocator) Allocate(spec Spec) (Storage, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	format, err := cpuFormat(spec.Format)
	if err != nil {
		return nil, err
	}
	return NewShmStorage(spec.Width, spec.Height, format)
}

// ShmAvailable reports whether shared memory storage can be created.
func ShmAvailable() bool {
	return true
}

var _ Storage = (*ShmStorage)(nil)
