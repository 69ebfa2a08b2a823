package pson

// Base-128 varint codec for in-memory payloads. Values are encoded seven
// bits per byte, least-significant group first, with 0x80 set on every byte
// except the last. Streaming reads and writes live in internal/wire; these
// byte-slice forms serve payloads that keep the wire encoding in memory.

// UvarintSize returns the number of bytes needed to encode v.
func UvarintSize(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// PutUvarint encodes v into buf and returns the number of bytes written.
// buf must be at least UvarintSize(v) bytes.
func PutUvarint(buf []byte, v uint64) int {
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			return n
		}
	}
}

// AppendUvarint appends the encoding of v to dst and returns the extended
// slice.
func AppendUvarint(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// Uvarint decodes a varint from the start of buf, returning the value and
// the number of bytes consumed. It returns (0, 0) when buf is empty or ends
// mid-varint.
func Uvarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint
	for i, b := range buf {
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// MakeTag packs a value kind and a wire type into one tag varint.
func MakeTag(t Type, w WireType) uint64 {
	return uint64(t)<<3 | uint64(w)
}

// SplitTag unpacks a tag into its value kind and wire type.
func SplitTag(tag uint64) (Type, WireType) {
	return Type(tag >> 3), WireType(tag & 0x07)
}
