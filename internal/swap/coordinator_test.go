// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package swap

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/compositor/buffer"
)

func poolIDs(n int) []buffer.ID {
	ids := make([]buffer.ID, n)
	for i := range ids {
		ids[i] = buffer.ID(i + 1)
	}
	return ids
}

func newCoordinator(t *testing.T, n int, opts ...Option) (*Coordinator, []buffer.ID) {
	t.Helper()
	ids := poolIDs(n)
	c, err := New(ids, opts...)
	if err != nil {
		t.Fatalf("New(%d ids) error = %v", n, err)
	}
	return c, ids
}

func checkInvariants(t *testing.T, c *Coordinator, ids []buffer.ID) {
	t.Helper()
	if err := c.Snapshot().Validate(ids); err != nil {
		t.Fatal(err)
	}
}

func mustClientAcquire(t *testing.T, c *Coordinator) buffer.ID {
	t.Helper()
	id, err := c.ClientAcquire()
	if err != nil {
		t.Fatalf("ClientAcquire() error = %v", err)
	}
	return id
}

func mustCompositorAcquire(t *testing.T, c *Coordinator) buffer.ID {
	t.Helper()
	id, err := c.CompositorAcquire()
	if err != nil {
		t.Fatalf("CompositorAcquire() error = %v", err)
	}
	return id
}

func mustRelease(t *testing.T, release func(buffer.ID) error, id buffer.ID) {
	t.Helper()
	if err := release(id); err != nil {
		t.Fatalf("release(%s) error = %v", id, err)
	}
}

type acquireResult struct {
	id  buffer.ID
	err error
}

// acquireAsync runs ClientAcquire in a goroutine.
func acquireAsync(c *Coordinator) <-chan acquireResult {
	ch := make(chan acquireResult, 1)
	go func() {
		id, err := c.ClientAcquire()
		ch <- acquireResult{id, err}
	}()
	return ch
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name    string
		ids     []buffer.ID
		wantErr error
	}{
		{"empty", nil, buffer.ErrTooFewBuffers},
		{"single", []buffer.ID{1}, buffer.ErrTooFewBuffers},
		{"four", []buffer.ID{1, 2, 3, 4}, buffer.ErrTooManyBuffers},
		{"duplicate", []buffer.ID{1, 1}, buffer.ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.ids); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitialState(t *testing.T) {
	c, ids := newCoordinator(t, 3)

	want := Snapshot{ClientReady: []buffer.ID{1, 2, 3}}
	if diff := cmp.Diff(want, c.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	checkInvariants(t, c, ids)
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestRoundRobinDoubleBuffer(t *testing.T) {
	c, ids := newCoordinator(t, 2)

	var clientSeq, compositorSeq []buffer.ID
	for range 6 {
		id := mustClientAcquire(t, c)
		clientSeq = append(clientSeq, id)
		mustRelease(t, c.ClientRelease, id)
		checkInvariants(t, c, ids)

		id = mustCompositorAcquire(t, c)
		compositorSeq = append(compositorSeq, id)
		mustRelease(t, c.CompositorRelease, id)
		checkInvariants(t, c, ids)
	}

	want := []buffer.ID{1, 2, 1, 2, 1, 2}
	if diff := cmp.Diff(want, clientSeq); diff != "" {
		t.Errorf("client sequence mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, compositorSeq); diff != "" {
		t.Errorf("compositor sequence mismatch (-want +got):\n%s", diff)
	}
	if s := c.Stats(); s.Steals != 0 {
		t.Errorf("Steals = %d, want 0", s.Steals)
	}
}

func TestTripleBufferFIFO(t *testing.T) {
	c, ids := newCoordinator(t, 3)

	older := mustClientAcquire(t, c)
	newer := mustClientAcquire(t, c)
	mustRelease(t, c.ClientRelease, older)
	mustRelease(t, c.ClientRelease, newer)
	checkInvariants(t, c, ids)

	got := mustCompositorAcquire(t, c)
	if got != older {
		t.Fatalf("CompositorAcquire() = %s, want older frame %s", got, older)
	}
	if diff := cmp.Diff([]buffer.ID{newer}, c.Snapshot().CompositorReady); diff != "" {
		t.Errorf("compositor queue mismatch (-want +got):\n%s", diff)
	}
	mustRelease(t, c.CompositorRelease, got)

	if got := mustCompositorAcquire(t, c); got != newer {
		t.Errorf("second CompositorAcquire() = %s, want %s", got, newer)
	}
	checkInvariants(t, c, ids)
}

func TestCompositorStealsNewestClientBuffer(t *testing.T) {
	c, ids := newCoordinator(t, 3)

	mustClientAcquire(t, c) // 1; client queue is [2 3]
	got := mustCompositorAcquire(t, c)
	if got != 3 {
		t.Errorf("CompositorAcquire() = %s, want buffer-3 from the back of the client queue", got)
	}
	if diff := cmp.Diff([]buffer.ID{2}, c.Snapshot().ClientReady); diff != "" {
		t.Errorf("client queue mismatch (-want +got):\n%s", diff)
	}
	if s := c.Stats(); s.Steals != 1 {
		t.Errorf("Steals = %d, want 1", s.Steals)
	}
	checkInvariants(t, c, ids)
}

func TestCompositorNeverBlocks(t *testing.T) {
	for _, n := range []int{2, 3} {
		t.Run(fmt.Sprintf("N=%d", n), func(t *testing.T) {
			c, ids := newCoordinator(t, n)

			// The client holds N-1 buffers and has released nothing.
			for range n - 1 {
				mustClientAcquire(t, c)
			}

			done := make(chan acquireResult, 1)
			go func() {
				id, err := c.CompositorAcquire()
				done <- acquireResult{id, err}
			}()

			select {
			case r := <-done:
				if r.err != nil {
					t.Fatalf("CompositorAcquire() error = %v", r.err)
				}
				if r.id != buffer.ID(n) {
					t.Errorf("CompositorAcquire() = %s, want %s", r.id, buffer.ID(n))
				}
			case <-time.After(time.Second):
				t.Fatal("CompositorAcquire() blocked")
			}
			checkInvariants(t, c, ids)
		})
	}
}

func TestCompositorAcquireNoBuffer(t *testing.T) {
	c, ids := newCoordinator(t, 2)

	mustClientAcquire(t, c)
	mustCompositorAcquire(t, c)

	if _, err := c.CompositorAcquire(); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("CompositorAcquire() error = %v, want ErrNoBuffer", err)
	}
	checkInvariants(t, c, ids)
}

func TestClientAcquireStarvationGuard(t *testing.T) {
	// Pool {1, 2}: the client holds 1 and 2 is still queued, but taking it
	// would leave the compositor nothing.
	c, ids := newCoordinator(t, 2)

	if got := mustClientAcquire(t, c); got != 1 {
		t.Fatalf("ClientAcquire() = %s, want buffer-1", got)
	}

	second := acquireAsync(c)
	waitFor(t, "client to wait", func() bool { return c.Stats().ClientWaits == 1 })

	mustRelease(t, c.ClientRelease, 1)
	if diff := cmp.Diff([]buffer.ID{1}, c.Snapshot().CompositorReady); diff != "" {
		t.Errorf("compositor queue mismatch (-want +got):\n%s", diff)
	}

	// Client release does not wake waiters by default.
	select {
	case r := <-second:
		t.Fatalf("ClientAcquire() returned %v before compositor release", r)
	case <-time.After(50 * time.Millisecond):
	}

	if got := mustCompositorAcquire(t, c); got != 1 {
		t.Fatalf("CompositorAcquire() = %s, want buffer-1", got)
	}
	mustRelease(t, c.CompositorRelease, 1)

	select {
	case r := <-second:
		if r.err != nil {
			t.Fatalf("ClientAcquire() error = %v", r.err)
		}
		// Client queue was [2 1]; the oldest entry wins.
		if r.id != 2 {
			t.Errorf("ClientAcquire() = %s, want buffer-2", r.id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ClientAcquire() still blocked after compositor release")
	}
	checkInvariants(t, c, ids)
}

func TestEagerWake(t *testing.T) {
	c, ids := newCoordinator(t, 2, WithEagerWake())

	mustClientAcquire(t, c)
	second := acquireAsync(c)
	waitFor(t, "client to wait", func() bool { return c.Stats().ClientWaits == 1 })

	mustRelease(t, c.ClientRelease, 1)

	select {
	case r := <-second:
		if r.err != nil || r.id != 2 {
			t.Errorf("ClientAcquire() = %s, %v, want buffer-2, nil", r.id, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ClientAcquire() not woken by client release")
	}
	checkInvariants(t, c, ids)
}

func TestShutdownUnblocksWaiter(t *testing.T) {
	c, ids := newCoordinator(t, 2)

	mustClientAcquire(t, c)
	waiter := acquireAsync(c)
	waitFor(t, "client to wait", func() bool { return c.Stats().ClientWaits == 1 })

	go c.Shutdown()

	select {
	case r := <-waiter:
		if !errors.Is(r.err, ErrShutdown) {
			t.Errorf("ClientAcquire() error = %v, want ErrShutdown", r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ClientAcquire() still blocked after Shutdown")
	}

	waitFor(t, "shutdown", c.Closed)
	if _, err := c.ClientAcquire(); !errors.Is(err, ErrShutdown) {
		t.Errorf("ClientAcquire() after shutdown error = %v, want ErrShutdown", err)
	}
	if _, err := c.CompositorAcquire(); !errors.Is(err, ErrShutdown) {
		t.Errorf("CompositorAcquire() after shutdown error = %v, want ErrShutdown", err)
	}

	// Outstanding checkouts can still be returned.
	mustRelease(t, c.ClientRelease, 1)
	c.Shutdown()
	checkInvariants(t, c, ids)
}

func TestShutdownRefillsClientQueue(t *testing.T) {
	c, ids := newCoordinator(t, 2)

	// Client holds 1, compositor stole 2, then 1 is queued for the
	// compositor: the client queue is empty at shutdown.
	mustClientAcquire(t, c)
	stolen := mustCompositorAcquire(t, c)
	mustRelease(t, c.ClientRelease, 1)
	c.Shutdown()

	want := Snapshot{
		ClientReady:     []buffer.ID{1},
		CompositorOwned: []buffer.ID{stolen},
		Closed:          true,
	}
	if diff := cmp.Diff(want, c.Snapshot(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	checkInvariants(t, c, ids)
}

func TestShutdownWithEmptyQueues(t *testing.T) {
	c, ids := newCoordinator(t, 2)

	mustClientAcquire(t, c)
	mustCompositorAcquire(t, c)
	c.Shutdown()

	if !c.Stats().Shutdown {
		t.Error("Stats().Shutdown = false after Shutdown")
	}
	checkInvariants(t, c, ids)
}

func TestShutdownReportsTransition(t *testing.T) {
	c, ids := newCoordinator(t, 3)

	if !c.Shutdown() {
		t.Error("first Shutdown() = false, want true")
	}
	for range 3 {
		if c.Shutdown() {
			t.Error("repeated Shutdown() = true, want false")
		}
	}
	checkInvariants(t, c, ids)
}

func TestReleaseContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, c *Coordinator)
		release func(c *Coordinator) error
		wantErr error
	}{
		{
			name:    "client releases queued buffer",
			release: func(c *Coordinator) error { return c.ClientRelease(1) },
			wantErr: ErrNotOwned,
		},
		{
			name:    "client releases unknown buffer",
			release: func(c *Coordinator) error { return c.ClientRelease(99) },
			wantErr: ErrUnknownBuffer,
		},
		{
			name:    "compositor releases client buffer",
			setup:   func(t *testing.T, c *Coordinator) { mustClientAcquire(t, c) },
			release: func(c *Coordinator) error { return c.CompositorRelease(1) },
			wantErr: ErrNotOwned,
		},
		{
			name: "client releases twice",
			setup: func(t *testing.T, c *Coordinator) {
				id := mustClientAcquire(t, c)
				mustRelease(t, c.ClientRelease, id)
			},
			release: func(c *Coordinator) error { return c.ClientRelease(1) },
			wantErr: ErrNotOwned,
		},
		{
			name: "compositor releases twice",
			setup: func(t *testing.T, c *Coordinator) {
				id := mustCompositorAcquire(t, c)
				mustRelease(t, c.CompositorRelease, id)
			},
			release: func(c *Coordinator) error { return c.CompositorRelease(3) },
			wantErr: ErrNotOwned,
		},
		{
			name:    "client releases compositor-owned buffer",
			setup:   func(t *testing.T, c *Coordinator) { mustCompositorAcquire(t, c) },
			release: func(c *Coordinator) error { return c.ClientRelease(3) },
			wantErr: ErrNotOwned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ids := newCoordinator(t, 3)
			if tt.setup != nil {
				tt.setup(t, c)
			}
			before := c.Snapshot()

			if err := tt.release(c); !errors.Is(err, tt.wantErr) {
				t.Fatalf("release error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
				t.Errorf("failed release changed state (-before +after):\n%s", diff)
			}
			checkInvariants(t, c, ids)
		})
	}
}

func TestStats(t *testing.T) {
	c, _ := newCoordinator(t, 3)

	id := mustClientAcquire(t, c)
	mustRelease(t, c.ClientRelease, id)
	cid := mustCompositorAcquire(t, c)
	mustRelease(t, c.CompositorRelease, cid)
	cid = mustCompositorAcquire(t, c) // steal
	mustRelease(t, c.CompositorRelease, cid)

	want := Stats{
		ClientAcquires:     1,
		ClientReleases:     1,
		CompositorAcquires: 2,
		CompositorReleases: 2,
		Steals:             1,
	}
	if diff := cmp.Diff(want, c.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClientReady, "client-ready"},
		{StateClientOwned, "client-owned"},
		{StateCompositorReady, "compositor-ready"},
		{StateCompositorOwned, "compositor-owned"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestSnapshotValidate(t *testing.T) {
	ids := poolIDs(2)
	tests := []struct {
		name string
		snap Snapshot
		ok   bool
	}{
		{"valid", Snapshot{ClientReady: []buffer.ID{1}, CompositorOwned: []buffer.ID{2}}, true},
		{"lost buffer", Snapshot{ClientReady: []buffer.ID{1}}, false},
		{"duplicated buffer", Snapshot{ClientReady: []buffer.ID{1, 2}, CompositorReady: []buffer.ID{2}}, false},
		{"foreign buffer", Snapshot{ClientReady: []buffer.ID{1, 2, 7}}, false},
		{"counter drift", Snapshot{ClientReady: []buffer.ID{1, 2}, ClientOutstanding: 1}, false},
		{"client holds all", Snapshot{ClientOwned: []buffer.ID{1, 2}, ClientOutstanding: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate(ids)
			if (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
