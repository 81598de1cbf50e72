// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux

package buffer

// ShmAllocator allocates anonymous shared memory storage.
// It is only functional on Linux.
type ShmAllocator struct{}

// Allocate always fails with ErrShmUnsupported.
func (ShmAllocator) Allocate(Spec) (Storage, error) {
	return nil, ErrShmUnsupported
}

// ShmAvailable reports whether shared memory storage can be created.
func ShmAvailable() bool {
	return false
}
