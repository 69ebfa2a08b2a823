package bridge

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/protoson/pson"
	"github.com/protoson/pson/arena"
	perr "github.com/protoson/pson/errors"
)

// MarshalJSON renders the tree as compact JSON, preserving object key
// order. Byte blobs become base64 strings since JSON has no binary kind.
func MarshalJSON(v *pson.Value) ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writeJSON(b *bytes.Buffer, v *pson.Value) error {
	switch v.Type() {
	case pson.TypeNull:
		b.WriteString("null")
	case pson.TypeTrue:
		b.WriteString("true")
	case pson.TypeFalse:
		b.WriteString("false")
	case pson.TypeZero:
		b.WriteByte('0')
	case pson.TypeOne:
		b.WriteByte('1')
	case pson.TypeVarint:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case pson.TypeSVarint:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case pson.TypeFloat:
		b.WriteString(strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32))
	case pson.TypeDouble:
		b.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case pson.TypeString:
		return writeJSONString(b, v.String())
	case pson.TypeBytes:
		return writeJSONString(b, base64.StdEncoding.EncodeToString(v.Bytes()))
	case pson.TypeObject:
		b.WriteByte('{')
		first := true
		for it := v.Object().Items(); it.Valid(); it.Next() {
			if !first {
				b.WriteByte(',')
			}
			first = false
			if err := writeJSONString(b, it.Pair().Name()); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeJSON(b, it.Pair().Value()); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case pson.TypeArray:
		b.WriteByte('[')
		first := true
		for it := v.Array().Values(); it.Valid(); it.Next() {
			if !first {
				b.WriteByte(',')
			}
			first = false
			if err := writeJSON(b, it.Value()); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		return perr.Unsupported(perr.PhaseConvert, "unknown value kind "+v.Type().String())
	}
	return nil
}

func writeJSONString(b *bytes.Buffer, s string) error {
	enc, err := json.Marshal(s)
	if err != nil {
		return perr.Wrap(perr.PhaseConvert, perr.KindInvalidUTF8, err, "encode string")
	}
	b.Write(enc)
	return nil
}

// UnmarshalJSON parses JSON into a PSON tree, preserving object key order
// by walking the token stream instead of decoding into maps.
func UnmarshalJSON(data []byte, alloc arena.Allocator) (*pson.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v := pson.New(alloc)
	if err := parseJSONValue(dec, v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder, v *pson.Value) error {
	tok, err := dec.Token()
	if err != nil {
		return jsonErr(err)
	}
	return applyJSONToken(dec, v, tok)
}

func applyJSONToken(dec *json.Decoder, v *pson.Value, tok json.Token) error {
	switch t := tok.(type) {
	case nil:
		v.SetNull()
	case bool:
		v.SetBool(t)
	case string:
		v.SetString(t)
	case json.Number:
		return assignJSONNumber(v, t)
	case json.Delim:
		switch t {
		case '{':
			obj := v.Object()
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return jsonErr(err)
				}
				name, ok := key.(string)
				if !ok {
					return perr.InvalidData(perr.PhaseConvert, nil, "object key is not a string")
				}
				if err := parseJSONValue(dec, obj.Field(name)); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return jsonErr(err)
			}
		case '[':
			arr := v.Array()
			for dec.More() {
				if err := parseJSONValue(dec, arr.Add()); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return jsonErr(err)
			}
		default:
			return perr.InvalidData(perr.PhaseConvert, nil, "unexpected delimiter")
		}
	default:
		return perr.InvalidData(perr.PhaseConvert, nil, "unexpected JSON token")
	}
	return nil
}

func assignJSONNumber(v *pson.Value, n json.Number) error {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			v.SetInt(i)
			return nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			v.SetUint(u)
			return nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return perr.Wrap(perr.PhaseConvert, perr.KindInvalidData, err, "parse number "+s)
	}
	v.SetFloat64(f)
	return nil
}

func jsonErr(err error) error {
	if err == io.EOF {
		return perr.Truncated(perr.PhaseConvert, -1, err)
	}
	return perr.Wrap(perr.PhaseConvert, perr.KindInvalidData, err, "parse json")
}
