// Package bridge converts PSON value trees to and from other document
// encodings: JSON (order-preserving in both directions), CBOR and YAML.
//
// JSON conversion walks the tree directly so object key order survives the
// round trip. CBOR and YAML go through plain Go values (maps and slices),
// which is enough for inspection and interop but does not preserve key
// order.
package bridge

import (
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/protoson/pson"
	"github.com/protoson/pson/arena"
	perr "github.com/protoson/pson/errors"
)

// ToGo converts a PSON value to plain Go values: nil, bool, uint64, int64,
// float64, string, []byte, []any and map[string]any. Object key order is
// lost.
func ToGo(v *pson.Value) any {
	switch v.Type() {
	case pson.TypeNull:
		return nil
	case pson.TypeTrue:
		return true
	case pson.TypeFalse:
		return false
	case pson.TypeZero:
		return int64(0)
	case pson.TypeOne:
		return int64(1)
	case pson.TypeVarint:
		return v.Uint()
	case pson.TypeSVarint:
		return v.Int()
	case pson.TypeFloat, pson.TypeDouble:
		return v.Float64()
	case pson.TypeString:
		return v.String()
	case pson.TypeBytes:
		b := v.Bytes()
		out := make([]byte, len(b))
		copy(out, b)
		return out
	case pson.TypeObject:
		m := make(map[string]any, v.Object().Len())
		for it := v.Object().Items(); it.Valid(); it.Next() {
			m[it.Pair().Name()] = ToGo(it.Pair().Value())
		}
		return m
	case pson.TypeArray:
		out := make([]any, 0, v.Array().Len())
		for it := v.Array().Values(); it.Valid(); it.Next() {
			out = append(out, ToGo(it.Value()))
		}
		return out
	default:
		return nil
	}
}

// FromGo builds a PSON value from plain Go values. A nil alloc selects the
// heap strategy. Unsupported Go types are reported, not silently dropped.
func FromGo(x any, alloc arena.Allocator) (*pson.Value, error) {
	v := pson.New(alloc)
	if err := assign(v, x); err != nil {
		return nil, err
	}
	return v, nil
}

func assign(v *pson.Value, x any) error {
	switch t := x.(type) {
	case nil:
		v.SetNull()
	case bool:
		v.SetBool(t)
	case int:
		v.SetInt(int64(t))
	case int32:
		v.SetInt(int64(t))
	case int64:
		v.SetInt(t)
	case uint:
		v.SetUint(uint64(t))
	case uint32:
		v.SetUint(uint64(t))
	case uint64:
		v.SetUint(t)
	case float32:
		v.SetFloat32(t)
	case float64:
		v.SetFloat64(t)
	case string:
		v.SetString(t)
	case []byte:
		v.SetBytes(t)
	case []any:
		arr := v.Array()
		for _, item := range t {
			if err := assign(arr.Add(), item); err != nil {
				return err
			}
		}
	case map[string]any:
		obj := v.Object()
		for name, item := range t {
			if err := assign(obj.Field(name), item); err != nil {
				return err
			}
		}
	case map[any]any:
		// CBOR and YAML decoders produce interface-keyed maps.
		obj := v.Object()
		for name, item := range t {
			key, ok := name.(string)
			if !ok {
				return perr.InvalidData(perr.PhaseConvert, nil, "non-string map key")
			}
			if err := assign(obj.Field(key), item); err != nil {
				return err
			}
		}
	default:
		return perr.Unsupported(perr.PhaseConvert, "cannot convert Go value of this type")
	}
	return nil
}

// MarshalCBOR encodes the tree as CBOR.
func MarshalCBOR(v *pson.Value) ([]byte, error) {
	data, err := cbor.Marshal(ToGo(v))
	if err != nil {
		return nil, perr.Wrap(perr.PhaseConvert, perr.KindInvalidData, err, "cbor encode")
	}
	return data, nil
}

// UnmarshalCBOR decodes CBOR into a PSON tree.
func UnmarshalCBOR(data []byte, alloc arena.Allocator) (*pson.Value, error) {
	var x any
	if err := cbor.Unmarshal(data, &x); err != nil {
		return nil, perr.Wrap(perr.PhaseConvert, perr.KindInvalidData, err, "cbor decode")
	}
	return FromGo(x, alloc)
}

// MarshalYAML renders the tree as YAML.
func MarshalYAML(v *pson.Value) ([]byte, error) {
	data, err := yaml.Marshal(ToGo(v))
	if err != nil {
		return nil, perr.Wrap(perr.PhaseConvert, perr.KindInvalidData, err, "yaml encode")
	}
	return data, nil
}

// UnmarshalYAML parses YAML into a PSON tree.
func UnmarshalYAML(data []byte, alloc arena.Allocator) (*pson.Value, error) {
	var x any
	if err := yaml.Unmarshal(data, &x); err != nil {
		return nil, perr.Wrap(perr.PhaseConvert, perr.KindInvalidData, err, "yaml decode")
	}
	return FromGo(x, alloc)
}
