package pson

import (
	"encoding/binary"
	"math"

	"github.com/protoson/pson/arena"
)

// Value is a variant node holding exactly one of the thirteen kinds at a
// time. Scalar payloads live in allocator memory; object and array kinds
// own a container. Changing a Value's kind first releases whatever it held
// before.
type Value struct {
	alloc   arena.Allocator
	payload []byte
	obj     *Object
	arr     *Array
	typ     Type
}

// New creates a null Value drawing payload memory from alloc. A nil alloc
// selects the heap strategy.
func New(alloc arena.Allocator) *Value {
	if alloc == nil {
		alloc = arena.Heap{}
	}
	return &Value{alloc: alloc}
}

// Type returns the kind the value currently holds.
func (v *Value) Type() Type {
	return v.typ
}

// release drops the current payload back to the allocator. Containers are
// released recursively so every payload in the subtree goes back to the
// pool before the kind changes.
func (v *Value) release() {
	if v.alloc == nil {
		v.alloc = arena.Heap{}
	}
	if v.payload != nil {
		v.alloc.Release(v.payload)
		v.payload = nil
	}
	if v.obj != nil {
		for it := v.obj.Items(); it.Valid(); it.Next() {
			p := it.Pair()
			if p.name != nil {
				v.alloc.Release(p.name)
			}
			p.val.release()
		}
		v.obj = nil
	}
	if v.arr != nil {
		for it := v.arr.Values(); it.Valid(); it.Next() {
			it.Value().release()
		}
		v.arr = nil
	}
	v.typ = TypeNull
}

// SetNull resets the value to the null kind.
func (v *Value) SetNull() {
	v.release()
}

// SetBool stores a boolean. Booleans carry all their information in the
// kind tag and have no payload.
func (v *Value) SetBool(b bool) {
	v.release()
	if b {
		v.typ = TypeTrue
	} else {
		v.typ = TypeFalse
	}
}

// SetUint stores a non-negative integer, collapsing 0 and 1 to the literal
// kinds so they encode as a single tag byte.
func (v *Value) SetUint(u uint64) {
	v.release()
	switch u {
	case 0:
		v.typ = TypeZero
	case 1:
		v.typ = TypeOne
	default:
		v.typ = TypeVarint
		v.payload = v.alloc.Allocate(UvarintSize(u))
		PutUvarint(v.payload, u)
	}
}

// SetInt stores an integer. Negative values keep their magnitude in the
// payload; the sign is carried entirely by the kind tag.
func (v *Value) SetInt(i int64) {
	if i >= 0 {
		v.SetUint(uint64(i))
		return
	}
	v.release()
	v.typ = TypeSVarint
	mag := uint64(-i) // wraps correctly for math.MinInt64
	v.payload = v.alloc.Allocate(UvarintSize(mag))
	PutUvarint(v.payload, mag)
}

// SetFloat32 stores a single-precision number, collapsing integer-valued
// input to the integer path.
func (v *Value) SetFloat32(f float32) {
	if i, ok := intValued(float64(f)); ok {
		v.SetInt(i)
		return
	}
	v.release()
	v.typ = TypeFloat
	v.payload = v.alloc.Allocate(4)
	binary.LittleEndian.PutUint32(v.payload, math.Float32bits(f))
}

// SetFloat64 stores a double-precision number. Integer-valued input takes
// the integer path; input that survives a round trip through single
// precision within 1e-5 is downgraded to the float kind. Most telemetry
// fits in 4 bytes without meaningful loss.
func (v *Value) SetFloat64(f float64) {
	if i, ok := intValued(f); ok {
		v.SetInt(i)
		return
	}
	if math.Abs(f-float64(float32(f))) <= 0.00001 {
		v.SetFloat32(float32(f))
		return
	}
	v.release()
	v.typ = TypeDouble
	v.payload = v.alloc.Allocate(8)
	binary.LittleEndian.PutUint64(v.payload, math.Float64bits(f))
}

// intValued reports whether f is exactly representable as an int64.
func intValued(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// SetString stores a copy of s, NUL-terminated, in allocator memory.
func (v *Value) SetString(s string) {
	v.release()
	v.typ = TypeString
	v.payload = v.alloc.Allocate(len(s) + 1)
	copy(v.payload, s)
	v.payload[len(s)] = 0
}

// SetBytes stores a copy of b prefixed with its varint-encoded length. The
// prefix is part of the in-memory payload, not just the wire form.
func (v *Value) SetBytes(b []byte) {
	v.release()
	v.typ = TypeBytes
	pre := UvarintSize(uint64(len(b)))
	v.payload = v.alloc.Allocate(pre + len(b))
	PutUvarint(v.payload, uint64(len(b)))
	copy(v.payload[pre:], b)
}

// Object returns the value's object container, converting the value to the
// object kind first if it holds anything else.
func (v *Value) Object() *Object {
	if v.typ != TypeObject || v.obj == nil {
		v.release()
		v.typ = TypeObject
		v.obj = &Object{alloc: v.alloc}
	}
	return v.obj
}

// Array returns the value's array container, converting the value to the
// array kind first if it holds anything else.
func (v *Value) Array() *Array {
	if v.typ != TypeArray || v.arr == nil {
		v.release()
		v.typ = TypeArray
		v.arr = &Array{alloc: v.alloc}
	}
	return v.arr
}

// Field is shorthand for Object().Field(name).
func (v *Value) Field(name string) *Value {
	return v.Object().Field(name)
}

// Introspection predicates.

// IsNull reports whether the value holds the null kind.
func (v *Value) IsNull() bool { return v.typ == TypeNull }

// IsBoolean reports whether the value holds true or false.
func (v *Value) IsBoolean() bool { return v.typ == TypeTrue || v.typ == TypeFalse }

// IsNumber reports whether the value holds any numeric kind, including the
// 0 and 1 literals.
func (v *Value) IsNumber() bool {
	switch v.typ {
	case TypeVarint, TypeSVarint, TypeFloat, TypeDouble, TypeZero, TypeOne:
		return true
	}
	return false
}

// IsString reports whether the value holds a string.
func (v *Value) IsString() bool { return v.typ == TypeString }

// IsBytes reports whether the value holds a byte blob.
func (v *Value) IsBytes() bool { return v.typ == TypeBytes }

// IsObject reports whether the value holds an object.
func (v *Value) IsObject() bool { return v.typ == TypeObject }

// IsArray reports whether the value holds an array.
func (v *Value) IsArray() bool { return v.typ == TypeArray }

// Bool reads the value as a boolean: true for the true and one kinds, false
// for everything else.
func (v *Value) Bool() bool {
	return v.typ == TypeTrue || v.typ == TypeOne
}

// magnitude decodes the varint payload of an integer kind.
func (v *Value) magnitude() uint64 {
	m, _ := Uvarint(v.payload)
	return m
}

// Uint reads the value as an unsigned integer. Defaults and non-numeric
// kinds read as 0.
func (v *Value) Uint() uint64 {
	switch v.typ {
	case TypeOne, TypeTrue:
		return 1
	case TypeVarint:
		return v.magnitude()
	case TypeSVarint:
		return uint64(-int64(v.magnitude()))
	case TypeFloat:
		return uint64(v.float32())
	case TypeDouble:
		return uint64(v.float64())
	default:
		return 0
	}
}

// Int reads the value as a signed integer, negating the stored magnitude
// for the signed kind.
func (v *Value) Int() int64 {
	switch v.typ {
	case TypeOne, TypeTrue:
		return 1
	case TypeVarint:
		return int64(v.magnitude())
	case TypeSVarint:
		return -int64(v.magnitude())
	case TypeFloat:
		return int64(v.float32())
	case TypeDouble:
		return int64(v.float64())
	default:
		return 0
	}
}

// Float64 reads the value as a double-precision number.
func (v *Value) Float64() float64 {
	switch v.typ {
	case TypeOne, TypeTrue:
		return 1
	case TypeVarint:
		return float64(v.magnitude())
	case TypeSVarint:
		return -float64(v.magnitude())
	case TypeFloat:
		return float64(v.float32())
	case TypeDouble:
		return v.float64()
	default:
		return 0
	}
}

// Float32 reads the value as a single-precision number.
func (v *Value) Float32() float32 {
	switch v.typ {
	case TypeOne, TypeTrue:
		return 1
	case TypeVarint:
		return float32(v.magnitude())
	case TypeSVarint:
		return -float32(v.magnitude())
	case TypeFloat:
		return v.float32()
	case TypeDouble:
		return float32(v.float64())
	default:
		return 0
	}
}

func (v *Value) float32() float32 {
	if len(v.payload) < 4 {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(v.payload))
}

func (v *Value) float64() float64 {
	if len(v.payload) < 8 {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.payload))
}

// String reads the value as a string, or "" for any other kind. The bytes
// are copied; use StringBytes for a zero-copy view.
func (v *Value) String() string {
	return string(v.StringBytes())
}

// StringBytes returns the string payload without its NUL terminator as a
// direct view into allocator memory. The view is invalidated if a ring
// allocator wraps past it.
func (v *Value) StringBytes() []byte {
	if v.typ != TypeString || len(v.payload) == 0 {
		return nil
	}
	return v.payload[:len(v.payload)-1]
}

// Bytes returns the blob payload past its length prefix as a direct view
// into allocator memory.
func (v *Value) Bytes() []byte {
	if v.typ != TypeBytes {
		return nil
	}
	size, n := Uvarint(v.payload)
	if n == 0 {
		return nil
	}
	end := n + int(size)
	if end > len(v.payload) {
		end = len(v.payload)
	}
	return v.payload[n:end]
}
