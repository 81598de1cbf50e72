// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package buffer

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestShmStorage(t *testing.T) {
	s, err := NewShmStorage(32, 16, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Skipf("memfd unavailable: %v", err)
	}

	if s.Stride() != 32*4 {
		t.Errorf("Stride() = %d, want %d", s.Stride(), 32*4)
	}
	if len(s.Pixels()) != 32*16*4 {
		t.Errorf("len(Pixels()) = %d, want %d", len(s.Pixels()), 32*16*4)
	}
	if s.FD() < 0 {
		t.Errorf("FD() = %d, want a valid descriptor", s.FD())
	}

	// Mapped memory must be writable.
	px := s.Pixels()
	px[0], px[len(px)-1] = 0xAB, 0xCD
	if px[0] != 0xAB || px[len(px)-1] != 0xCD {
		t.Error("shared memory write not visible")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.Pixels() != nil || s.FD() != -1 {
		t.Error("Close() should unmap and close the descriptor")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestShmAllocatorInvalid(t *testing.T) {
	_, err := ShmAllocator{}.Allocate(Spec{Width: 0, Height: 4})
	if !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Allocate() error = %v, want ErrInvalidSpec", err)
	}
}
