package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadUvarint(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x7f}, 16383},
		{[]byte{0x80, 0x80, 0x01}, 16384},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, ^uint64(0)},
	}

	for _, tt := range tests {
		r := NewReader(bytes.NewReader(tt.encoded))
		got, err := r.ReadUvarint()
		if err != nil {
			t.Fatalf("decode %v: %v", tt.encoded, err)
		}
		if got != tt.value {
			t.Errorf("decode %v: got %d, want %d", tt.encoded, got, tt.value)
		}
		if r.Position() != len(tt.encoded) {
			t.Errorf("position = %d, want %d", r.Position(), len(tt.encoded))
		}
	}
}

func TestWriteUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, 1<<32 - 1, ^uint64(0)}

	for _, v := range values {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.WriteUvarint(v)
		if w.Err() != nil {
			t.Fatalf("write %d: %v", v, w.Err())
		}
		if w.Len() != buf.Len() {
			t.Errorf("write %d: Len() = %d, buffer has %d", v, w.Len(), buf.Len())
		}

		r := NewReader(&buf)
		got, err := r.ReadUvarint()
		if err != nil {
			t.Fatalf("read back %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip: got %d, want %d", got, v)
		}
	}
}

func TestReadUvarintOverflow(t *testing.T) {
	// Eleven continuation bytes exceed 64 bits.
	data := bytes.Repeat([]byte{0x80}, 11)
	r := NewReader(bytes.NewReader(data))
	if _, err := r.ReadUvarint(); !errors.Is(err, ErrOverflow) {
		t.Errorf("err = %v, want ErrOverflow", err)
	}
}

func TestReadUvarintRaw(t *testing.T) {
	data := []byte{0x80, 0x80, 0x01, 0x55}
	r := NewReader(bytes.NewReader(data))

	var scratch [10]byte
	n, err := r.ReadUvarintRaw(scratch[:])
	if err != nil {
		t.Fatalf("ReadUvarintRaw: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if !bytes.Equal(scratch[:n], data[:3]) {
		t.Errorf("raw bytes = %v, want %v", scratch[:n], data[:3])
	}
	// The trailing byte is untouched.
	if b, _ := r.ReadByte(); b != 0x55 {
		t.Errorf("next byte = %#x, want 0x55", b)
	}
}

func TestReadFullTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	buf := make([]byte, 4)
	err := r.ReadFull(buf)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
	if r.Position() != 2 {
		t.Errorf("position = %d, want 2", r.Position())
	}
}

func TestReadCountPartial(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{7, 8, 9}))
	buf := make([]byte, 5)
	n, err := r.ReadCount(buf)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
	if !bytes.Equal(buf[:n], []byte{7, 8, 9}) {
		t.Errorf("partial read = %v", buf[:n])
	}
}

func TestSkip(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if b, _ := r.ReadByte(); b != 4 {
		t.Errorf("byte after skip = %d, want 4", b)
	}
	if err := r.Skip(5); err == nil {
		t.Error("skipping past the end should fail")
	}
}

func TestCounter(t *testing.T) {
	w := NewCounter()
	w.WriteByte(0xAA)
	w.Write([]byte{1, 2, 3})
	w.WriteUvarint(300) // two bytes
	if w.Len() != 6 {
		t.Errorf("Len() = %d, want 6", w.Len())
	}
	if w.Err() != nil {
		t.Errorf("counter reported error: %v", w.Err())
	}
}

type failingSink struct{ after int }

func (f *failingSink) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("sink full")
	}
	f.after -= len(p)
	return len(p), nil
}

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(&failingSink{after: 2})
	w.Write([]byte{1, 2})
	w.WriteByte(3)
	w.WriteByte(4)
	if w.Err() == nil {
		t.Fatal("expected sink failure")
	}
	if w.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (writes after failure must not count)", w.Len())
	}
}
