package wire

import (
	"errors"
	"io"
)

// ErrOverflow is returned when a varint exceeds 64 bits.
var ErrOverflow = errors.New("varint: overflow")

// Reader wraps an io.Reader with position tracking and the primitive reads
// the PSON decoder is built from. Every read either fills the requested
// bytes completely or reports an error; there is no partial-read signaling
// beyond that.
type Reader struct {
	r   io.Reader
	pos int
	one [1]byte
}

// NewReader creates a new Reader wrapping the given io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int {
	return r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(r.r, r.one[:]); err != nil {
		return 0, err
	}
	r.pos++
	return r.one[0], nil
}

// ReadFull fills buf completely and advances the position. Short reads are
// reported as io.ErrUnexpectedEOF.
func (r *Reader) ReadFull(buf []byte) error {
	_, err := r.ReadCount(buf)
	return err
}

// ReadCount fills buf like ReadFull but also reports how many bytes landed
// in it before a failure, so callers can keep the partial read.
func (r *Reader) ReadCount(buf []byte) (int, error) {
	n, err := io.ReadFull(r.r, buf)
	r.pos += n
	return n, err
}

// ReadUvarint reads an unsigned base-128 varint.
func (r *Reader) ReadUvarint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, ErrOverflow
		}
	}
}

// ReadUvarintRaw reads the encoded bytes of a varint verbatim into scratch
// and returns how many bytes were consumed. Used when the decoded payload
// keeps the wire form.
func (r *Reader) ReadUvarintRaw(scratch []byte) (int, error) {
	n := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return n, err
		}
		if n >= len(scratch) {
			return n, ErrOverflow
		}
		scratch[n] = b
		n++
		if b&0x80 == 0 {
			return n, nil
		}
	}
}

// Skip discards exactly n bytes.
func (r *Reader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}
