package bridge_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/protoson/pson"
	"github.com/protoson/pson/bridge"
)

func mustJSON(t *testing.T, v *pson.Value) string {
	t.Helper()
	data, err := bridge.MarshalJSON(v)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	return string(data)
}

func TestMarshalJSONScalars(t *testing.T) {
	tests := []struct {
		name string
		set  func(v *pson.Value)
		want string
	}{
		{"null", func(v *pson.Value) { v.SetNull() }, "null"},
		{"true", func(v *pson.Value) { v.SetBool(true) }, "true"},
		{"false", func(v *pson.Value) { v.SetBool(false) }, "false"},
		{"zero", func(v *pson.Value) { v.SetInt(0) }, "0"},
		{"one", func(v *pson.Value) { v.SetInt(1) }, "1"},
		{"int", func(v *pson.Value) { v.SetInt(225) }, "225"},
		{"negative int", func(v *pson.Value) { v.SetInt(-225) }, "-225"},
		{"float", func(v *pson.Value) { v.SetFloat32(225.33) }, "225.33"},
		{"negative float", func(v *pson.Value) { v.SetFloat32(-225.33) }, "-225.33"},
		{"double", func(v *pson.Value) { v.SetFloat64(123456.789) }, "123456.789"},
		{"int-valued double", func(v *pson.Value) { v.SetFloat64(222.0) }, "222"},
		{"uint64 max", func(v *pson.Value) { v.SetUint(1<<64 - 1) }, "18446744073709551615"},
		{"int64 min", func(v *pson.Value) { v.SetInt(-1 << 63) }, "-9223372036854775808"},
		{"string", func(v *pson.Value) { v.SetString("test") }, `"test"`},
		{"utf8 string", func(v *pson.Value) { v.SetString("我能吞下玻璃而不伤身体。") }, `"我能吞下玻璃而不伤身体。"`},
		{"bytes", func(v *pson.Value) { v.SetBytes([]byte{1, 2, 3}) }, `"AQID"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := pson.New(nil)
			tt.set(v)
			if got := mustJSON(t, v); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMarshalJSONContainers(t *testing.T) {
	v := pson.New(nil)
	v.Object()
	if got := mustJSON(t, v); got != "{}" {
		t.Errorf("empty object: %s", got)
	}

	v.Array()
	if got := mustJSON(t, v); got != "[]" {
		t.Errorf("empty array: %s", got)
	}

	v.Field("array").Array()
	if got := mustJSON(t, v); got != `{"array":[]}` {
		t.Errorf("object with array: %s", got)
	}

	v.SetNull()
	v.Field("object").Object()
	if got := mustJSON(t, v); got != `{"object":{}}` {
		t.Errorf("object with object: %s", got)
	}

	v.SetNull()
	obj := v.Object()
	obj.Field("one").SetInt(1)
	obj.Field("true").SetBool(true)
	obj.Field("str").SetString("str")
	obj.Field("float").SetFloat32(33.44)
	if got := mustJSON(t, v); got != `{"one":1,"true":true,"str":"str","float":33.44}` {
		t.Errorf("object with multiple elements: %s", got)
	}

	v.SetNull()
	arr := v.Array()
	arr.Add().SetInt(1)
	arr.Add().SetBool(true)
	arr.Add().SetString("str")
	arr.Add().SetFloat32(33.44)
	if got := mustJSON(t, v); got != `[1,true,"str",33.44]` {
		t.Errorf("array with multiple elements: %s", got)
	}

	v.SetNull()
	inner := v.Array().Add().Object()
	inner.Field("key").SetInt(5)
	if got := mustJSON(t, v); got != `[{"key":5}]` {
		t.Errorf("array with object: %s", got)
	}

	v.SetNull()
	v.Array().Add().Array().Add().SetInt(5)
	if got := mustJSON(t, v); got != `[[5]]` {
		t.Errorf("array with array: %s", got)
	}
}

func TestUnmarshalJSONPreservesOrder(t *testing.T) {
	src := `{"b":1,"a":{"z":[1,2,-3],"y":"text"},"c":null}`

	v, err := bridge.UnmarshalJSON([]byte(src), nil)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got := mustJSON(t, v); got != src {
		t.Errorf("round trip changed the document:\n got %s\nwant %s", got, src)
	}
}

func TestUnmarshalJSONNumbers(t *testing.T) {
	v, err := bridge.UnmarshalJSON([]byte(`[0,1,42,-7,2.5,18446744073709551615]`), nil)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}

	arr := v.Array()
	wantTypes := []pson.Type{
		pson.TypeZero, pson.TypeOne, pson.TypeVarint,
		pson.TypeSVarint, pson.TypeFloat, pson.TypeVarint,
	}
	i := 0
	for it := arr.Values(); it.Valid(); it.Next() {
		if it.Value().Type() != wantTypes[i] {
			t.Errorf("item %d stored as %v, want %v", i, it.Value().Type(), wantTypes[i])
		}
		i++
	}
	if i != len(wantTypes) {
		t.Fatalf("decoded %d items, want %d", i, len(wantTypes))
	}
}

func TestUnmarshalJSONInvalid(t *testing.T) {
	for _, src := range []string{"", "{", `{"a"}`, "[1,"} {
		if _, err := bridge.UnmarshalJSON([]byte(src), nil); err == nil {
			t.Errorf("no error for invalid input %q", src)
		}
	}
}

func TestJSONThroughWireRoundTrip(t *testing.T) {
	src := `{"device":"sensor-7","online":true,"readings":[22.5,-4,{"unit":"celsius"}]}`

	v, err := bridge.UnmarshalJSON([]byte(src), nil)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}

	decoded, err := pson.Parse(v.Encode(), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := mustJSON(t, decoded); got != src {
		t.Errorf("wire round trip changed the document:\n got %s\nwant %s", got, src)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	v := pson.New(nil)
	obj := v.Object()
	obj.Field("name").SetString("dev")
	obj.Field("count").SetInt(12)
	obj.Field("blob").SetBytes([]byte{9, 8, 7})
	obj.Field("tags").Array().Add().SetString("a")

	data, err := bridge.MarshalCBOR(v)
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}

	back, err := bridge.UnmarshalCBOR(data, nil)
	if err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}

	name, _ := back.Object().Get("name")
	if name.String() != "dev" {
		t.Errorf("name = %q", name.String())
	}
	count, _ := back.Object().Get("count")
	if count.Int() != 12 {
		t.Errorf("count = %d", count.Int())
	}
	blob, _ := back.Object().Get("blob")
	if !bytes.Equal(blob.Bytes(), []byte{9, 8, 7}) {
		t.Errorf("blob = %v", blob.Bytes())
	}
	tags, _ := back.Object().Get("tags")
	if !tags.IsArray() || tags.Array().Len() != 1 {
		t.Error("tags array lost")
	}
}

func TestMarshalYAML(t *testing.T) {
	v := pson.New(nil)
	obj := v.Object()
	obj.Field("name").SetString("dev")
	obj.Field("online").SetBool(true)

	data, err := bridge.MarshalYAML(v)
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "name: dev") || !strings.Contains(out, "online: true") {
		t.Errorf("unexpected YAML:\n%s", out)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	src := "name: dev\nvalues:\n  - 1\n  - 2.5\n  - hello\n"

	v, err := bridge.UnmarshalYAML([]byte(src), nil)
	if err != nil {
		t.Fatalf("UnmarshalYAML: %v", err)
	}
	name, _ := v.Object().Get("name")
	if name.String() != "dev" {
		t.Errorf("name = %q", name.String())
	}
	values, _ := v.Object().Get("values")
	if !values.IsArray() || values.Array().Len() != 3 {
		t.Fatal("values array lost")
	}
}

func TestFromGoUnsupported(t *testing.T) {
	if _, err := bridge.FromGo(struct{}{}, nil); err == nil {
		t.Error("structs should be rejected")
	}
	if _, err := bridge.FromGo(map[string]any{"ch": make(chan int)}, nil); err == nil {
		t.Error("channels should be rejected")
	}
}

func TestToGoRoundTrip(t *testing.T) {
	in := map[string]any{
		"n":    nil,
		"b":    true,
		"i":    int64(-5),
		"u":    uint64(99),
		"f":    2.5,
		"s":    "text",
		"list": []any{int64(1), "two"},
	}

	v, err := bridge.FromGo(in, nil)
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}
	out, ok := bridge.ToGo(v).(map[string]any)
	if !ok {
		t.Fatal("ToGo did not return a map")
	}

	if out["n"] != nil || out["b"] != true || out["s"] != "text" {
		t.Errorf("scalars mangled: %+v", out)
	}
	if out["i"] != int64(-5) {
		t.Errorf("i = %v (%T)", out["i"], out["i"])
	}
	if out["u"] != uint64(99) {
		t.Errorf("u = %v (%T)", out["u"], out["u"])
	}
	if out["f"] != 2.5 {
		t.Errorf("f = %v", out["f"])
	}
	list, ok := out["list"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("list = %v", out["list"])
	}
}
