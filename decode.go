package pson

import (
	"bytes"
	"errors"
	"io"
	"math"

	"github.com/protoson/pson/arena"
	perr "github.com/protoson/pson/errors"
	"github.com/protoson/pson/internal/wire"
)

// decodeChunk bounds how much payload memory a wire-supplied length can
// claim before any of it has been read. Larger declared lengths are read
// incrementally, so a corrupt length on a short stream surfaces as a
// truncation error instead of a huge upfront allocation.
const decodeChunk = 64 << 10

// Decoder reconstructs a value tree from a byte stream. Decoding is
// best-effort: on a truncated stream the interrupted field is left at its
// zero value, everything read up to that point is kept, and the error
// reports where the stream ended. Callers that want the partial tree can
// keep it; callers that want strictness can treat any error as fatal.
type Decoder struct {
	r     *wire.Reader
	alloc arena.Allocator
}

// NewDecoder creates a Decoder reading from r and drawing payload memory
// from alloc. A nil alloc selects the heap strategy.
func NewDecoder(r io.Reader, alloc arena.Allocator) *Decoder {
	if alloc == nil {
		alloc = arena.Heap{}
	}
	return &Decoder{r: wire.NewReader(r), alloc: alloc}
}

// BytesRead returns the number of bytes consumed so far.
func (d *Decoder) BytesRead() int {
	return d.r.Position()
}

// Decode reads one value from the stream. On error the returned value holds
// whatever was decoded before the stream failed.
func (d *Decoder) Decode() (*Value, error) {
	v := New(d.alloc)
	err := d.decodeValue(v)
	return v, err
}

// Parse decodes a single value from data. A nil alloc selects the heap
// strategy.
func Parse(data []byte, alloc arena.Allocator) (*Value, error) {
	return NewDecoder(bytes.NewReader(data), alloc).Decode()
}

func (d *Decoder) fail(err error) error {
	if errors.Is(err, wire.ErrOverflow) {
		return perr.Overflow(perr.PhaseDecode, d.r.Position())
	}
	return perr.Truncated(perr.PhaseDecode, d.r.Position(), err)
}

// declaredSize validates a wire-supplied byte count before anything trusts
// it. A length that cannot fit an int is corrupt by definition; no stream
// could ever deliver it.
func (d *Decoder) declaredSize(size64 uint64) (int, error) {
	if size64 > uint64(math.MaxInt-decodeChunk) {
		return 0, perr.New(perr.PhaseDecode, perr.KindInvalidData).
			Position(d.r.Position()).
			Detail("declared length %d is corrupt", size64).
			Build()
	}
	return int(size64), nil
}

// readDelimited reads a declared number of payload bytes into allocator
// memory, with pre and post spare bytes around them for in-memory framing
// (length prefixes, NUL terminators). The spare bytes are zeroed per the
// allocator contract. Declared lengths beyond one chunk are read
// incrementally before the final allocation. On a read error the bytes read
// so far come back alongside it, so the partial tree stays usable.
func (d *Decoder) readDelimited(size64 uint64, pre, post int) ([]byte, error) {
	size, err := d.declaredSize(size64)
	if err != nil {
		return d.alloc.Allocate(pre + post), err
	}

	if size <= decodeChunk {
		buf := d.alloc.Allocate(pre + size + post)
		if err := d.r.ReadFull(buf[pre : pre+size]); err != nil {
			return buf, d.fail(err)
		}
		return buf, nil
	}

	tmp := make([]byte, 0, decodeChunk)
	for len(tmp) < size {
		n := size - len(tmp)
		if n > decodeChunk {
			n = decodeChunk
		}
		read := len(tmp)
		tmp = append(tmp, make([]byte, n)...)
		if got, err := d.r.ReadCount(tmp[read:]); err != nil {
			buf := d.alloc.Allocate(pre + read + got + post)
			copy(buf[pre:], tmp[:read+got])
			return buf, d.fail(err)
		}
	}
	buf := d.alloc.Allocate(pre + size + post)
	copy(buf[pre:], tmp)
	return buf, nil
}

func (d *Decoder) decodeValue(v *Value) error {
	tag, err := d.r.ReadUvarint()
	if err != nil {
		return d.fail(err)
	}
	kind, wt := SplitTag(tag)
	v.typ = kind

	if wt == WireLengthDelimited {
		size64, err := d.r.ReadUvarint()
		if err != nil {
			return d.fail(err)
		}

		switch kind {
		case TypeString:
			// Payload keeps the in-memory NUL terminator; the wire has none.
			buf, err := d.readDelimited(size64, 0, 1)
			buf[len(buf)-1] = 0
			v.payload = buf
			if err != nil {
				return err
			}
		case TypeBytes:
			// Re-encode the length as the in-memory prefix.
			pre := UvarintSize(size64)
			buf, err := d.readDelimited(size64, pre, 0)
			PutUvarint(buf, size64)
			v.payload = buf
			if err != nil {
				return err
			}
		case TypeObject:
			size, err := d.declaredSize(size64)
			if err != nil {
				return err
			}
			v.obj = &Object{alloc: d.alloc}
			if err := d.decodeObject(v.obj, size); err != nil {
				return err
			}
		case TypeArray:
			size, err := d.declaredSize(size64)
			if err != nil {
				return err
			}
			v.arr = &Array{alloc: d.alloc}
			if err := d.decodeArray(v.arr, size); err != nil {
				return err
			}
		default:
			// Unknown kind: the length tells us how much to skip.
			size, err := d.declaredSize(size64)
			if err != nil {
				return err
			}
			if err := d.r.Skip(size); err != nil {
				return d.fail(err)
			}
		}
		return nil
	}

	switch kind {
	case TypeVarint, TypeSVarint:
		var scratch [10]byte
		n, err := d.r.ReadUvarintRaw(scratch[:])
		if err != nil {
			return d.fail(err)
		}
		v.payload = d.alloc.Allocate(n)
		copy(v.payload, scratch[:n])
	case TypeFloat:
		v.payload = d.alloc.Allocate(4)
		if err := d.r.ReadFull(v.payload); err != nil {
			return d.fail(err)
		}
	case TypeDouble:
		v.payload = d.alloc.Allocate(8)
		if err := d.r.ReadFull(v.payload); err != nil {
			return d.fail(err)
		}
	default:
		// Literal kinds carry everything in the tag. Unknown scalar kinds
		// read nothing, matching the skip-by-length tolerance above.
	}
	return nil
}

// decodeObject decodes pairs until size bytes have been consumed. A size
// that does not land exactly on a pair boundary is not detected; decoding
// stops once the counter is satisfied or exceeded. A failing read aborts
// the loop instead of spinning on a source that no longer advances.
func (d *Decoder) decodeObject(o *Object, size int) error {
	start := d.r.Position()
	for d.r.Position()-start < size {
		if err := d.decodePair(o.append()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeArray(a *Array, size int) error {
	start := d.r.Position()
	for d.r.Position()-start < size {
		if err := d.decodeValue(a.Add()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodePair(p *Pair) error {
	nameLen, err := d.r.ReadUvarint()
	if err != nil {
		return d.fail(err)
	}
	buf, err := d.readDelimited(nameLen, 0, 1)
	buf[len(buf)-1] = 0
	p.name = buf
	if err != nil {
		return err
	}
	return d.decodeValue(&p.val)
}
