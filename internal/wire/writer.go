package wire

import "io"

// Writer wraps an io.Writer with position tracking and the primitive writes
// the PSON encoder is built from. A nil sink makes the Writer a pure byte
// counter, which is how submessage lengths are computed before the real
// emit pass.
//
// Sink failures are captured sticky: after the first error every further
// write is a no-op and Err reports the failure.
type Writer struct {
	w   io.Writer
	n   int
	err error
	one [1]byte
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// NewCounter creates a Writer that discards bytes and only counts them.
func NewCounter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written (or counted) so far.
func (w *Writer) Len() int {
	return w.n
}

// Err returns the first sink failure, if any.
func (w *Writer) Err() error {
	return w.err
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) {
	if w.err != nil {
		return
	}
	if w.w != nil {
		w.one[0] = b
		if _, err := w.w.Write(w.one[:]); err != nil {
			w.err = err
			return
		}
	}
	w.n++
}

// Write writes a byte slice.
func (w *Writer) Write(p []byte) {
	if w.err != nil {
		return
	}
	if w.w != nil {
		if _, err := w.w.Write(p); err != nil {
			w.err = err
			return
		}
	}
	w.n += len(p)
}

// WriteUvarint writes an unsigned base-128 varint.
func (w *Writer) WriteUvarint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}
