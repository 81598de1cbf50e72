// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package buffer provides the fixed set of interchangeable pixel buffers
// circulated by a swap chain.
//
// A [Buffer] pairs a stable [ID] with a [Storage] backend. Storage is
// obtained from an [Allocator] at swap chain construction and never
// resized afterward; the coordinator only moves IDs around and is agnostic
// to where the pixels live.
//
// Backends:
//   - [PixmapAllocator]: CPU memory backed by *image.RGBA
//   - [ShmAllocator]: anonymous shared memory (memfd + mmap, Linux only)
//   - [TextureAllocator]: GPU textures imported from the host device
//
// Allocators can be registered by name in a [Registry]:
//
//	buffer.Register("shm", 50, buffer.ShmAllocator{}, buffer.ShmAvailable)
//	alloc, err := buffer.NewAllocator() // best available
//
// A [Pool] owns 2 or 3 buffers and exposes identity lookup only. It
// performs no synchronization.
package buffer
