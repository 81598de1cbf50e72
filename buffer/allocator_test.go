// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixmapAllocator(t *testing.T) {
	tests := []struct {
		name       string
		spec       Spec
		wantFormat gputypes.TextureFormat
		wantErr    error
	}{
		{"undefined defaults to rgba", Spec{Width: 16, Height: 8}, gputypes.TextureFormatRGBA8Unorm, nil},
		{"bgra", Spec{Width: 16, Height: 8, Format: gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatBGRA8Unorm, nil},
		{"zero width", Spec{Width: 0, Height: 8}, 0, ErrInvalidSpec},
		{"negative height", Spec{Width: 8, Height: -1}, 0, ErrInvalidSpec},
		{"depth format", Spec{Width: 8, Height: 8, Format: gputypes.TextureFormatDepth24PlusStencil8}, 0, ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := PixmapAllocator{}.Allocate(tt.spec)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if s.Width() != tt.spec.Width || s.Height() != tt.spec.Height {
				t.Errorf("size = %dx%d, want %dx%d", s.Width(), s.Height(), tt.spec.Width, tt.spec.Height)
			}
			if s.Format() != tt.wantFormat {
				t.Errorf("Format() = %v, want %v", s.Format(), tt.wantFormat)
			}
			if s.Stride() != tt.spec.Width*4 {
				t.Errorf("Stride() = %d, want %d", s.Stride(), tt.spec.Width*4)
			}
			if len(s.Pixels()) != tt.spec.Width*tt.spec.Height*4 {
				t.Errorf("len(Pixels()) = %d, want %d", len(s.Pixels()), tt.spec.Width*tt.spec.Height*4)
			}
		})
	}
}

func TestAllocateN(t *testing.T) {
	buffers, err := AllocateN(PixmapAllocator{}, 3, Spec{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(buffers) != 3 {
		t.Fatalf("len = %d, want 3", len(buffers))
	}
	for i, b := range buffers {
		if b.ID() != ID(i+1) {
			t.Errorf("buffers[%d].ID() = %s, want %s", i, b.ID(), ID(i+1))
		}
	}
	if buffers[0].Storage() == buffers[1].Storage() {
		t.Error("buffers must not share storage")
	}
}

func TestAllocateNClosesOnFailure(t *testing.T) {
	var allocated []*closeCounter
	calls := 0
	alloc := AllocatorFunc(func(spec Spec) (Storage, error) {
		calls++
		if calls == 3 {
			return nil, errors.New("out of memory")
		}
		img, _ := NewPixmapStorage(spec.Width, spec.Height, gputypes.TextureFormatRGBA8Unorm)
		c := &closeCounter{PixmapStorage: *img}
		allocated = append(allocated, c)
		return c, nil
	})

	_, err := AllocateN(alloc, 3, Spec{Width: 2, Height: 2})
	if err == nil {
		t.Fatal("AllocateN() should fail")
	}
	for i, c := range allocated {
		if c.closes != 1 {
			t.Errorf("storage %d closed %d times, want 1", i, c.closes)
		}
	}
}

func TestSpecExtent(t *testing.T) {
	e := Spec{Width: 640, Height: 480}.Extent()
	if e.Width != 640 || e.Height != 480 || e.DepthOrArrayLayers != 1 {
		t.Errorf("Extent() = %+v, want 640x480x1", e)
	}
}
