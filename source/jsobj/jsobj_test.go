package jsobj

import (
	"errors"
	"math"
	"strings"
	"testing"

	jsontool "github.com/useManner/json-tool"
)

func mustDecode(t *testing.T, s string, d Dialect) any {
	t.Helper()
	v, err := Decode(s, d, jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestJS_UnquotedKeysSingleQuotesTrailingComma(t *testing.T) {
	v := mustDecode(t, `{name: 'Alice', age: 30, tags: ['a', "b",],}`, JS)
	want := jsontool.MapOf("name", "Alice", "age", int64(30), "tags", []any{"a", "b"})
	if !jsontool.Equal(v, want) {
		t.Fatalf("got %#v", v)
	}
	if got := v.(*jsontool.Map).Keys(); got[0] != "name" || got[2] != "tags" {
		t.Fatalf("key order lost: %v", got)
	}
}

func TestJS_CommentsAndSpecialWords(t *testing.T) {
	src := `{
		// line comment
		a: undefined, /* block */
		b: NaN,
		c: -Infinity,
		d: 0x1F,
		e: +5,
		f: .5,
	}`
	m := mustDecode(t, src, JS).(*jsontool.Map)
	if v, _ := m.Get("a"); v != nil {
		t.Fatalf("undefined should be null, got %v", v)
	}
	if v, _ := m.Get("b"); !math.IsNaN(v.(float64)) {
		t.Fatalf("b: %v", v)
	}
	if v, _ := m.Get("c"); !math.IsInf(v.(float64), -1) {
		t.Fatalf("c: %v", v)
	}
	if v, _ := m.Get("d"); v != int64(31) {
		t.Fatalf("d: %#v", v)
	}
	if v, _ := m.Get("e"); v != int64(5) {
		t.Fatalf("e: %#v", v)
	}
	if v, _ := m.Get("f"); v != 0.5 {
		t.Fatalf("f: %#v", v)
	}
}

func TestJS_EscapesAndNumericKeys(t *testing.T) {
	m := mustDecode(t, `{'it\'s': "tab\there", 1: "é\x41", "\ud83d\ude00": true}`, JS).(*jsontool.Map)
	if v, _ := m.Get("it's"); v != "tab\there" {
		t.Fatalf("escape: %q", v)
	}
	if v, _ := m.Get("1"); v != "éA" {
		t.Fatalf("numeric key: %q", v)
	}
	if !m.Has("😀") {
		t.Fatalf("surrogate pair key missing: %v", m.Keys())
	}
}

func TestJS_Rejects(t *testing.T) {
	cases := []string{
		``,
		`{a: 1`,
		`{a 1}`,
		`hello`,
		`{a: True}`,
		`{a: 1} {b: 2}`,
		`'unterminated`,
		`{a: /* open`,
	}
	for _, c := range cases {
		if _, err := Decode(c, JS, jsontool.Budget{}); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestJS_SyntaxErrorOffset(t *testing.T) {
	_, err := Decode(`{a: 1, b: ?}`, JS, jsontool.Budget{})
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	if se.Offset != 10 {
		t.Fatalf("offset: %d", se.Offset)
	}
}

func TestPython_TuplesSetsAndKeywords(t *testing.T) {
	v := mustDecode(t, `{'a': (1, 2), 'b': {3, 4}, 'c': True, 'd': None, 'e': (5,), 'f': (), 'g': (7)}`, Python)
	want := jsontool.MapOf(
		"a", []any{int64(1), int64(2)},
		"b", []any{int64(3), int64(4)},
		"c", true,
		"d", nil,
		"e", []any{int64(5)},
		"f", []any{},
		"g", int64(7),
	)
	if !jsontool.Equal(v, want) {
		t.Fatalf("got %#v", v)
	}
}

func TestPython_NonStringKeysAndPrefixes(t *testing.T) {
	m := mustDecode(t, `{1: r'a\d', True: u"x", None: b'y', 2.5: '''multi
line'''}  # trailing comment`, Python).(*jsontool.Map)
	if v, _ := m.Get("1"); v != `a\d` {
		t.Fatalf("raw string: %q", v)
	}
	if v, _ := m.Get("true"); v != "x" {
		t.Fatalf("bool key: %v", m.Keys())
	}
	if !m.Has("null") || !m.Has("2.5") {
		t.Fatalf("keys: %v", m.Keys())
	}
	if v, _ := m.Get("2.5"); v != "multi\nline" {
		t.Fatalf("triple: %q", v)
	}
}

func TestPython_RejectsJSKeywordsAndTupleKeys(t *testing.T) {
	for _, c := range []string{`{'a': true}`, `{a: 1}`, `{(1, 2): 'x'}`, `[null]`} {
		if _, err := Decode(c, Python, jsontool.Budget{}); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestBudget_DepthAndDuplicates(t *testing.T) {
	_, err := Decode(`{a: {b: {c: 1}}}`, JS, jsontool.Budget{MaxDepth: 2})
	iss, ok := jsontool.AsIssues(err)
	if !ok || iss[0].Code != jsontool.CodeTooDeep {
		t.Fatalf("want too_deep, got %v", err)
	}
	v, err := Decode(`{a: 1, a: 2}`, JS, jsontool.Budget{})
	if err != nil {
		t.Fatalf("last-wins: %v", err)
	}
	if got, _ := v.(*jsontool.Map).Get("a"); got != int64(2) {
		t.Fatalf("last value should win, got %v", got)
	}
	if _, err := Decode(`{a: 1, a: 2}`, JS, jsontool.Budget{OnDuplicate: jsontool.DuplicateError}); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestBudget_HardDepthCap(t *testing.T) {
	const n = 1000000
	for _, d := range []Dialect{JS, Python} {
		_, err := Decode(strings.Repeat("[", n)+strings.Repeat("]", n), d, jsontool.Budget{})
		iss, ok := jsontool.AsIssues(err)
		if !ok || iss[0].Code != jsontool.CodeTooDeep {
			t.Fatalf("%s: want too_deep, got %v", d, err)
		}
	}
	at := jsontool.HardMaxDepth
	v, err := Decode(strings.Repeat("[", at)+strings.Repeat("]", at), JS, jsontool.Budget{})
	if err != nil || v == nil {
		t.Fatalf("nesting at the cap should decode: %v", err)
	}
	if _, err := Decode(strings.Repeat("(", at+1)+"1"+strings.Repeat(",)", at+1), Python, jsontool.Budget{}); err == nil {
		t.Fatalf("tuples past the cap should fail")
	}
}
