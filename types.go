package pson

// Type identifies which of the thirteen value kinds a Value holds. The
// numeric id doubles as the field-number slot of the wire tag, which is
// what keeps the format schema-less.
type Type byte

const (
	TypeNull    Type = 0  // no payload
	TypeVarint  Type = 1  // unsigned integer, varint payload
	TypeSVarint Type = 2  // negative integer, varint magnitude payload
	TypeFloat   Type = 3  // 4 raw bytes
	TypeDouble  Type = 4  // 8 raw bytes
	TypeTrue    Type = 5  // no payload
	TypeFalse   Type = 6  // no payload
	TypeZero    Type = 7  // literal 0, no payload
	TypeOne     Type = 8  // literal 1, no payload
	TypeString  Type = 9  // NUL-terminated payload
	TypeBytes   Type = 10 // varint length prefix + raw bytes
	TypeObject  Type = 11 // owned Object container
	TypeArray   Type = 12 // owned Array container
	// Tag packing leaves room for ids up to 15.
)

// String returns the kind name.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeVarint:
		return "varint"
	case TypeSVarint:
		return "svarint"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeTrue:
		return "true"
	case TypeFalse:
		return "false"
	case TypeZero:
		return "zero"
	case TypeOne:
		return "one"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// WireType declares how to parse the bytes following a tag.
type WireType byte

const (
	WireVarint          WireType = 0
	WireFixed64         WireType = 1
	WireLengthDelimited WireType = 2
	WireFixed32         WireType = 5
)

// wireTypeOf returns the wire type used to encode a value kind.
func wireTypeOf(t Type) WireType {
	switch t {
	case TypeFloat:
		return WireFixed32
	case TypeDouble:
		return WireFixed64
	case TypeString, TypeBytes, TypeObject, TypeArray:
		return WireLengthDelimited
	default:
		return WireVarint
	}
}
