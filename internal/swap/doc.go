// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package swap implements the swap coordinator: the synchronization engine
// that hands buffer IDs between one client (producer) and one compositor
// (consumer).
//
// # State
//
// The coordinator keeps two FIFO queues of IDs and a counter:
//
//   - client-ready: buffers the client may acquire next
//   - compositor-ready: buffers the client released and the compositor has
//     not consumed yet
//   - clientOutstanding: buffers currently checked out by the client
//
// Every ID is in exactly one of client-ready, compositor-ready, client-owned
// or compositor-owned at all times.
//
// # Transitions
//
//	ClientReady --ClientAcquire--> ClientOwned --ClientRelease--> CompositorReady
//	CompositorReady --CompositorAcquire--> CompositorOwned
//	CompositorOwned --CompositorRelease--> ClientReady
//	ClientReady --CompositorAcquire (steal)--> CompositorOwned
//
// The steal edge is taken only when compositor-ready is empty: the
// compositor takes the newest entry of the client's reserve instead of
// waiting, so compositing never stalls on client production.
//
// # Concurrency
//
// One mutex guards all state. ClientAcquire is the only operation that
// waits; it sleeps on a sync.Cond until a buffer is queued for the client
// and acquiring it would leave at least one buffer to the compositor.
// CompositorRelease signals that condition. Shutdown wakes every waiter,
// which then returns ErrShutdown.
package swap
