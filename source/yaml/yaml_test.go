package yaml

import (
	"errors"
	"testing"

	jsontool "github.com/useManner/json-tool"
)

func TestDecode_OrderAndScalars(t *testing.T) {
	src := `
zeta: 1
alpha: 2.5
flag: true
none: ~
hex: 0x10
text: "007"
list:
  - a
  - b
`
	v, err := Decode([]byte(src), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(*jsontool.Map)
	keys := m.Keys()
	if keys[0] != "zeta" || keys[1] != "alpha" || keys[len(keys)-1] != "list" {
		t.Fatalf("order: %v", keys)
	}
	want := jsontool.MapOf(
		"zeta", int64(1),
		"alpha", 2.5,
		"flag", true,
		"none", nil,
		"hex", int64(16),
		"text", "007",
		"list", []any{"a", "b"},
	)
	if !jsontool.Equal(m, want) {
		t.Fatalf("got %#v", m)
	}
}

func TestDecode_MergeKeysAndAliases(t *testing.T) {
	src := `
base: &base
  a: 1
  b: 2
child:
  <<: *base
  b: 3
  c: 4
`
	v, err := Decode([]byte(src), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	child, _ := v.(*jsontool.Map).Get("child")
	cm := child.(*jsontool.Map)
	want := jsontool.MapOf("a", int64(1), "b", int64(3), "c", int64(4))
	if !jsontool.Equal(cm, want) {
		t.Fatalf("merge: %#v", cm)
	}
	if k := cm.Keys(); k[0] != "a" || k[1] != "b" || k[2] != "c" {
		t.Fatalf("merge order: %v", k)
	}
}

func TestDecode_NonStringKeys(t *testing.T) {
	v, err := Decode([]byte("1: one\ntrue: yes\n~: nothing\n"), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(*jsontool.Map)
	for _, k := range []string{"1", "true", "null"} {
		if !m.Has(k) {
			t.Fatalf("missing key %q in %v", k, m.Keys())
		}
	}
}

func TestDecode_MultiDocumentAndScalar(t *testing.T) {
	v, err := Decode([]byte("a: 1\n---\nb: 2\n"), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	docs, ok := v.([]any)
	if !ok || len(docs) != 2 {
		t.Fatalf("docs: %#v", v)
	}

	s, err := Decode([]byte("just some words"), jsontool.Budget{})
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if s != "just some words" || !IsScalar(s) {
		t.Fatalf("scalar: %#v", s)
	}
	if IsScalar(docs) {
		t.Fatalf("sequence reported as scalar")
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(nil, jsontool.Budget{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := Decode([]byte("a: [1, 2"), jsontool.Budget{}); err == nil {
		t.Fatalf("expected syntax error")
	}
	_, err := Decode([]byte("a: 1\na: 2\n"), jsontool.Budget{OnDuplicate: jsontool.DuplicateError})
	var de *DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "a" || de.Line != 2 {
		t.Fatalf("duplicate: %v", err)
	}
	_, err = Decode([]byte("a:\n  b:\n    c: 1\n"), jsontool.Budget{MaxDepth: 2})
	if iss, ok := jsontool.AsIssues(err); !ok || iss[0].Code != jsontool.CodeTooDeep {
		t.Fatalf("depth: %v", err)
	}
	_, err = Decode([]byte("a: 1"), jsontool.Budget{MaxBytes: 2})
	if iss, ok := jsontool.AsIssues(err); !ok || iss[0].Code != jsontool.CodeTooBig {
		t.Fatalf("bytes: %v", err)
	}
}
