package arena_test

import (
	"testing"

	"github.com/protoson/pson/arena"
)

func TestRingSequentialAllocations(t *testing.T) {
	r := arena.NewRing(64)

	a := r.Allocate(16)
	b := r.Allocate(16)
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("allocation sizes: got %d, %d, want 16, 16", len(a), len(b))
	}

	a[0] = 0xAA
	if b[0] == 0xAA {
		t.Error("distinct allocations share memory before wraparound")
	}
}

func TestRingWraparoundAliases(t *testing.T) {
	r := arena.NewRing(32)

	first := r.Allocate(24)
	first[0] = 0x11

	// Remaining space is 8 bytes; this request wraps to the start and must
	// alias the first allocation.
	second := r.Allocate(24)
	if &second[0] != &first[0] {
		t.Fatal("wrapped allocation does not alias the start of the ring")
	}
	if second[0] != 0 {
		t.Error("wrapped allocation not zeroed")
	}
	if first[0] != 0 {
		t.Error("aliased older allocation should observe the overwrite")
	}
}

func TestRingExactFit(t *testing.T) {
	r := arena.NewRing(16)

	a := r.Allocate(16)
	if len(a) != 16 {
		t.Fatalf("len = %d, want 16", len(a))
	}
	b := r.Allocate(16)
	if &b[0] != &a[0] {
		t.Error("exact-fit reallocation should wrap and alias the buffer start")
	}
}

func TestRingOversizedFallsBackToHeap(t *testing.T) {
	r := arena.NewRing(8)

	big := r.Allocate(64)
	if len(big) != 64 {
		t.Fatalf("len = %d, want 64", len(big))
	}

	// The fallback slice must not be backed by the ring.
	inside := r.Allocate(8)
	if &big[0] == &inside[0] {
		t.Error("oversized allocation aliases the ring buffer")
	}
}

func TestRingAllocationsAreZeroed(t *testing.T) {
	r := arena.NewRing(16)

	a := r.Allocate(16)
	for i := range a {
		a[i] = 0xFF
	}
	b := r.Allocate(16)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %#x after wrap, want 0", i, v)
		}
	}
}

func TestHeapAllocate(t *testing.T) {
	var h arena.Heap

	a := h.Allocate(10)
	if len(a) != 10 {
		t.Fatalf("len = %d, want 10", len(a))
	}
	b := h.Allocate(10)
	if &a[0] == &b[0] {
		t.Error("heap allocations share backing memory")
	}

	// Release must be callable and harmless.
	h.Release(a)
	h.Release(nil)
}
