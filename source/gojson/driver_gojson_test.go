package gojson

import (
	"testing"

	jsontool "github.com/useManner/json-tool"
)

func TestDecode_PreservesOrderAndNormalisesNumbers(t *testing.T) {
	v, err := Decode([]byte(`{"b":1,"a":[1.5,"x",null,true],"c":{"z":2,"y":3}}`), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(*jsontool.Map)
	if k := m.Keys(); k[0] != "b" || k[1] != "a" || k[2] != "c" {
		t.Fatalf("order: %v", k)
	}
	c, _ := m.Get("c")
	if k := c.(*jsontool.Map).Keys(); k[0] != "z" {
		t.Fatalf("nested order: %v", k)
	}
	want := jsontool.MapOf("b", int64(1), "a", []any{1.5, "x", nil, true}, "c", jsontool.MapOf("z", 2, "y", 3))
	if !jsontool.Equal(m, want) {
		t.Fatalf("got %#v", m)
	}
}

func TestDecode_RejectsNonStrict(t *testing.T) {
	for _, in := range []string{`{a:1}`, `{'a':1}`, `{"a":1,}`, `[1] [2]`, ``, `{"a":`} {
		if _, err := DecodeString(in, jsontool.Budget{}); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestDecode_Budget(t *testing.T) {
	_, err := DecodeString(`[[[1]]]`, jsontool.Budget{MaxDepth: 2})
	if iss, ok := jsontool.AsIssues(err); !ok || iss[0].Code != jsontool.CodeTooDeep {
		t.Fatalf("depth: %v", err)
	}
	_, err = DecodeString(`{"a":1,"a":2}`, jsontool.Budget{OnDuplicate: jsontool.DuplicateError})
	if iss, ok := jsontool.AsIssues(err); !ok || iss[0].Code != jsontool.CodeDuplicateKey {
		t.Fatalf("dup: %v", err)
	}
}

func TestValid(t *testing.T) {
	if !Valid([]byte(`{"a":[1,2]}`)) || Valid([]byte(`{a:1}`)) {
		t.Fatalf("Valid mismatch")
	}
}
