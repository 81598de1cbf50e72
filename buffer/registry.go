// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package buffer

import (
	"fmt"
	"sort"
	"sync"
)

// RegistryEntry describes a registered allocator.
type RegistryEntry struct {
	// Name is the unique identifier for this allocator.
	Name string

	// Priority determines selection order (higher = preferred).
	// Built-in priorities:
	//   - 100: GPU texture import
	//   - 50: shared memory
	//   - 10: CPU pixmap
	Priority int

	// Allocator creates buffer storage.
	Allocator Allocator

	// Available reports if the allocator can be used on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry manages named buffer allocators.
//
// Platform code registers the allocators it can offer; swap chains pick
// one by name or take the best available:
//
//	buffer.Register("gpu", 100, buffer.TextureAllocator{Provider: p, Create: f}, nil)
//	alloc, err := buffer.NewAllocator()
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewAllocator.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds an allocator to the global registry.
// If available is nil, the allocator is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, a Allocator, available func() bool) {
	globalRegistry.Register(name, priority, a, available)
}

// Unregister removes an allocator from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered allocator names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available allocators sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// NewAllocator returns the best available allocator of the global registry.
func NewAllocator() (Allocator, error) {
	return globalRegistry.NewAllocator()
}

// NewAllocatorByName returns a specific allocator of the global registry.
func NewAllocatorByName(name string) (Allocator, error) {
	return globalRegistry.NewAllocatorByName(name)
}

// Register adds an allocator to this registry.
func (r *Registry) Register(name string, priority int, a Allocator, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Allocator: a,
		Available: available,
	}
}

// Unregister removes an allocator from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered allocator names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available allocators sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns a copy of the entry registered under name.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// NewAllocator returns the highest priority available allocator.
func (r *Registry) NewAllocator() (Allocator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := r.sortedNames(true)
	if len(available) == 0 {
		return nil, ErrNoAllocatorAvailable
	}
	return r.entries[available[0]].Allocator, nil
}

// NewAllocatorByName returns the allocator registered under name.
func (r *Registry) NewAllocatorByName(name string) (Allocator, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAllocatorNotFound, name)
	}
	if !entry.Available() {
		return nil, fmt.Errorf("%w: %s", ErrAllocatorUnavailable, name)
	}
	return entry.Allocator, nil
}

// sortedNames returns names sorted by priority (highest first), ties by name.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// init registers the built-in CPU allocators.
func init() {
	Register("pixmap", 10, PixmapAllocator{}, nil)
	Register("shm", 50, ShmAllocator{}, ShmAvailable)
}
