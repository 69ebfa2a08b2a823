package pson

import (
	"bytes"
	"io"

	perr "github.com/protoson/pson/errors"
	"github.com/protoson/pson/internal/wire"
)

// Encoder walks a value tree and emits the wire bytes to a sink. Nested
// containers are length-delimited; the length of each submessage is
// computed by running the identical encode against a counting sink first,
// then re-encoding against the real one. Nothing is buffered, so total cost
// grows with the sum of every node's depth — the right trade for the small,
// shallow messages the format targets.
type Encoder struct {
	w *wire.Writer
}

// NewEncoder creates an Encoder emitting to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: wire.NewWriter(w)}
}

// BytesWritten returns the number of bytes emitted so far.
func (e *Encoder) BytesWritten() int {
	return e.w.Len()
}

// Encode emits one value. Sink failures are captured sticky and reported
// once; everything written before the failure stays written.
func (e *Encoder) Encode(v *Value) error {
	e.encodeValue(v)
	if err := e.w.Err(); err != nil {
		return perr.SinkFailure(e.w.Len(), err)
	}
	return nil
}

// Encode serializes the value to a fresh byte slice.
func (v *Value) Encode() []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.encodeValue(v)
	return buf.Bytes()
}

func (e *Encoder) encodeValue(v *Value) {
	tag := MakeTag(v.typ, wireTypeOf(v.typ))

	switch v.typ {
	case TypeTrue, TypeFalse, TypeZero, TypeOne:
		e.w.WriteUvarint(tag)
	case TypeVarint, TypeSVarint:
		e.w.WriteUvarint(tag)
		if len(v.payload) == 0 {
			e.w.WriteByte(0)
		} else {
			e.w.Write(v.payload)
		}
	case TypeFloat:
		e.w.WriteUvarint(tag)
		e.writeFixed(v.payload, 4)
	case TypeDouble:
		e.w.WriteUvarint(tag)
		e.writeFixed(v.payload, 8)
	case TypeString:
		// In memory the payload is NUL-terminated; the wire carries a
		// varint length and no terminator.
		e.w.WriteUvarint(tag)
		n := len(v.payload)
		if n > 0 {
			n--
		}
		e.w.WriteUvarint(uint64(n))
		e.w.Write(v.payload[:n])
	case TypeBytes:
		// The in-memory payload already carries its length prefix.
		e.w.WriteUvarint(tag)
		if len(v.payload) == 0 {
			e.w.WriteByte(0)
		} else {
			e.w.Write(v.payload)
		}
	case TypeObject:
		e.encodeSubmessage(TypeObject, func(sub *Encoder) {
			sub.encodeObject(v.obj)
		})
	case TypeArray:
		e.encodeSubmessage(TypeArray, func(sub *Encoder) {
			sub.encodeArray(v.arr)
		})
	default:
		e.w.WriteUvarint(MakeTag(TypeNull, WireVarint))
	}
}

// writeFixed emits a fixed-width payload, zero-filling when a truncated
// decode left it short.
func (e *Encoder) writeFixed(payload []byte, width int) {
	e.w.Write(payload)
	for i := len(payload); i < width; i++ {
		e.w.WriteByte(0)
	}
}

// encodeSubmessage emits tag + length + body. The body is encoded twice:
// once against a counting sink to learn the length, then against the real
// sink.
func (e *Encoder) encodeSubmessage(kind Type, body func(*Encoder)) {
	counter := &Encoder{w: wire.NewCounter()}
	body(counter)

	e.w.WriteUvarint(MakeTag(kind, WireLengthDelimited))
	e.w.WriteUvarint(uint64(counter.BytesWritten()))
	body(e)
}

func (e *Encoder) encodeObject(o *Object) {
	if o == nil {
		return
	}
	for it := o.Items(); it.Valid(); it.Next() {
		e.encodePair(it.Pair())
	}
}

func (e *Encoder) encodePair(p *Pair) {
	n := len(p.name)
	if n > 0 {
		n--
	}
	e.w.WriteUvarint(uint64(n))
	e.w.Write(p.name[:n])
	e.encodeValue(&p.val)
}

func (e *Encoder) encodeArray(a *Array) {
	if a == nil {
		return
	}
	for it := a.Values(); it.Valid(); it.Next() {
		e.encodeValue(it.Value())
	}
}
