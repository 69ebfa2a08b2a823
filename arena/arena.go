// Package arena provides the allocation strategies backing PSON value
// payloads.
//
// Every scalar payload in a PSON tree (varint magnitudes, raw float bytes,
// strings, byte blobs, pair names) is carved out of an Allocator. Two
// strategies are provided: Ring, a fixed-capacity bump allocator for
// memory-constrained targets, and Heap, a thin wrapper over ordinary Go
// allocation.
//
// Allocation never fails. The Ring strategy trades that guarantee for a
// documented hazard: when the buffer wraps, new allocations alias memory
// that may still be referenced by older values. Sizing the ring for the
// worst-case in-flight message is the caller's responsibility.
package arena

// Allocator hands out byte slices for PSON payloads.
//
// Allocate returns a slice of exactly n bytes and never returns nil.
// Release gives a slice back to the allocator; both strategies treat it as
// a no-op, but value code calls it on every payload it drops so a future
// recycling strategy can reclaim eagerly.
type Allocator interface {
	Allocate(n int) []byte
	Release(b []byte)
}

// Ring is a bump-pointer allocator over a fixed buffer. When a request does
// not fit in the remaining space the cursor wraps to the start and the
// allocation is served from the beginning of the buffer, aliasing whatever
// was there before. Release is a no-op; memory is only reusable once the
// cursor wraps past it.
//
// Requests larger than the whole buffer cannot be served by wrapping and
// fall back to a one-off heap slice.
type Ring struct {
	buf []byte
	off int
}

// NewRing creates a ring allocator with the given capacity in bytes.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Allocate returns n bytes from the ring, wrapping to the start when the
// remainder is too small. The returned slice is zeroed so stale ring
// contents never leak into a fresh payload.
func (r *Ring) Allocate(n int) []byte {
	if n > len(r.buf) {
		return make([]byte, n)
	}
	if r.off+n > len(r.buf) {
		r.off = 0
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	clear(b)
	return b
}

// Release is a no-op. Ring memory is reclaimed only by wrapping.
func (r *Ring) Release([]byte) {}

// Capacity returns the fixed size of the ring buffer.
func (r *Ring) Capacity() int {
	return len(r.buf)
}

// Heap allocates every request from the Go heap. Release is a no-op; the
// garbage collector reclaims payloads once the owning value drops them.
// The zero value is ready to use.
type Heap struct{}

// Allocate returns a fresh heap slice of n bytes.
func (Heap) Allocate(n int) []byte {
	return make([]byte, n)
}

// Release is a no-op.
func (Heap) Release([]byte) {}
