package jsontool

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEncodeJSON(t *testing.T) {
	v := MapOf("b", []any{int64(1), 2.5, nil}, "a", MapOf(), "c", []any{})
	cases := []struct {
		name string
		opt  EncodeOptions
		want string
	}{
		{"compact", EncodeOptions{}, `{"b":[1,2.5,null],"a":{},"c":[]}`},
		{"sorted", EncodeOptions{SortKeys: true}, `{"a":{},"b":[1,2.5,null],"c":[]}`},
		{"indent", EncodeOptions{Indent: 2}, "{\n  \"b\": [\n    1,\n    2.5,\n    null\n  ],\n  \"a\": {},\n  \"c\": []\n}"},
	}
	for _, c := range cases {
		got, err := EncodeJSON(v, c.opt)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if string(got) != c.want {
			t.Fatalf("%s:\n got %s\nwant %s", c.name, got, c.want)
		}
	}
}

func TestEncodeJSON_Strings(t *testing.T) {
	got, err := EncodeJSON([]any{"é<>", "a\"b\n", "😀"}, EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if want := `["é<>","a\"b\n","😀"]`; string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
	got, err = EncodeJSON([]any{"é", "😀"}, EncodeOptions{ASCII: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := `["\u00e9","\ud83d\ude00"]`; string(got) != want {
		t.Fatalf("ascii: got %s want %s", got, want)
	}
}

func TestEncodeJSON_NonFiniteAndUnsupported(t *testing.T) {
	got, err := EncodeJSON([]any{math.NaN(), math.Inf(1), math.Inf(-1), 2.0}, EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if want := `[NaN,Infinity,-Infinity,2.0]`; string(got) != want {
		t.Fatalf("got %s", got)
	}
	if _, err := EncodeJSON(struct{}{}, EncodeOptions{}); err == nil || !strings.Contains(err.Error(), "cannot encode") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestFormatScalar(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{"text", "text"},
		{int64(-7), "-7"},
		{2.0, "2.0"},
		{1.5, "1.5"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{1e20, "1e+20"},
		{[]any{int64(1), "x"}, `[1,"x"]`},
		{MapOf("k", nil), `{"k":null}`},
	}
	for _, c := range cases {
		if got := FormatScalar(c.in); got != c.want {
			t.Fatalf("FormatScalar(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatNames(t *testing.T) {
	for _, name := range []string{"yml", "tsv", "url", "xlsx", "json5", "python"} {
		if f, ok := ParseFormat(name); !ok || f == FormatUnknown {
			t.Fatalf("ParseFormat(%q) = %v, %v", name, f, ok)
		}
	}
	if _, ok := ParseFormat("toml"); ok {
		t.Fatalf("toml should not parse")
	}
	if FormatPyLiteral.String() != "py-literal" || Format(99).String() != "unknown" {
		t.Fatalf("format strings")
	}
}

func TestIssues(t *testing.T) {
	cause := errors.New("boom")
	err := error(Issues{
		{Path: "/a", Code: CodeParseError, Message: "m1", Cause: cause},
		{Code: CodeSchemaError, Message: "m2"},
		{Path: "/c", Code: CodeTooDeep},
		{Path: "/d", Code: CodeTooBig},
	})
	if want := "parse_error at /a: m1; schema_error at /: m2; too_deep at /c; ... (total 4)"; err.Error() != want {
		t.Fatalf("got %q", err.Error())
	}
	if !errors.Is(err, ErrSchema) || errors.Is(err, ErrTransformParam) {
		t.Fatalf("sentinel matching")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should unwrap")
	}
	if iss, ok := AsIssues(err); !ok || len(iss) != 4 {
		t.Fatalf("AsIssues")
	}
	if !errors.Is(TransformParamError("sort", "bad"), ErrTransformParam) {
		t.Fatalf("transform param sentinel")
	}
	if _, ok := AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}
