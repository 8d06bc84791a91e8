package xml

import (
	"errors"
	"testing"

	jsontool "github.com/useManner/json-tool"
)

func TestDecode_Conventions(t *testing.T) {
	src := `<?xml version="1.0"?>
<library id="main">
  <!-- comment -->
  <book lang="en">Go<![CDATA[ & ]]>More</book>
  <book>Second</book>
  <empty/>
  <shelf><label>A</label></shelf>
</library>`
	v, err := Decode([]byte(src), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := jsontool.MapOf("library", jsontool.MapOf(
		"@id", "main",
		"book", []any{
			jsontool.MapOf("@lang", "en", "#text", "Go & More"),
			"Second",
		},
		"empty", nil,
		"shelf", jsontool.MapOf("label", "A"),
	))
	if !jsontool.Equal(v, want) {
		t.Fatalf("got %#v", v)
	}
	lib, _ := v.(*jsontool.Map).Get("library")
	if k := lib.(*jsontool.Map).Keys(); k[0] != "@id" || k[1] != "book" {
		t.Fatalf("order: %v", k)
	}
}

func TestDecode_NamespacePrefixesKept(t *testing.T) {
	v, err := Decode([]byte(`<ns:root xmlns:ns="urn:x" ns:a="1"><ns:item>v</ns:item></ns:root>`), jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	root, ok := v.(*jsontool.Map).Get("ns:root")
	if !ok {
		t.Fatalf("root key: %v", v.(*jsontool.Map).Keys())
	}
	m := root.(*jsontool.Map)
	if !m.Has("@xmlns:ns") || !m.Has("@ns:a") || !m.Has("ns:item") {
		t.Fatalf("keys: %v", m.Keys())
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]error{
		"a=1&b=2":         ErrNoRoot,
		"":                ErrNoRoot,
		"<a/><b/>":        ErrMultipleRoots,
		"<a></a>trailing": ErrMultipleRoots,
	}
	for in, want := range cases {
		if _, err := Decode([]byte(in), jsontool.Budget{}); !errors.Is(err, want) {
			t.Fatalf("%q: want %v, got %v", in, want, err)
		}
	}
	for _, in := range []string{"<a><b></a>", "<a>", "<a"} {
		if _, err := Decode([]byte(in), jsontool.Budget{}); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestDecode_Depth(t *testing.T) {
	_, err := Decode([]byte("<a><b><c/></b></a>"), jsontool.Budget{MaxDepth: 3})
	if iss, ok := jsontool.AsIssues(err); !ok || iss[0].Code != jsontool.CodeTooDeep {
		t.Fatalf("depth: %v", err)
	}
}
