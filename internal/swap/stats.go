// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swap

// Stats counts coordinator operations since construction.
type Stats struct {
	// ClientAcquires counts successful ClientAcquire calls.
	ClientAcquires uint64

	// ClientReleases counts successful ClientRelease calls.
	ClientReleases uint64

	// CompositorAcquires counts successful CompositorAcquire calls,
	// steals included.
	CompositorAcquires uint64

	// CompositorReleases counts successful CompositorRelease calls.
	CompositorReleases uint64

	// Steals counts compositor acquires served from the client queue
	// because no new frame was queued. A high ratio of Steals to
	// CompositorAcquires means the client renders slower than the
	// compositor refreshes.
	Steals uint64

	// ClientWaits counts ClientAcquire calls that had to wait.
	ClientWaits uint64

	// Shutdown reports whether Shutdown has been called.
	Shutdown bool
}

// Stats returns a snapshot of the operation counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
