package synth

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/jsonschema"
	"github.com/useManner/json-tool/source/gojson"
)

func seeded(opts ...Option) *Engine {
	return New(append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)...)
}

func schemaOf(t *testing.T, text string) *jsonschema.Schema {
	t.Helper()
	v, err := gojson.DecodeString(text, jsontool.Budget{})
	if err != nil {
		t.Fatalf("schema json: %v", err)
	}
	s, err := jsonschema.FromValue(v)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func TestClassify(t *testing.T) {
	full := jsontool.MapOf("type", "object", "properties", jsontool.MapOf())
	if Classify(full) != SchemaFull {
		t.Fatalf("full schema classified as shorthand")
	}
	for _, v := range []any{
		jsontool.MapOf("type", "object"),
		jsontool.MapOf("type", "string", "properties", jsontool.MapOf()),
		jsontool.MapOf("name", "name"),
		[]any{"name"},
		"email",
		nil,
	} {
		if Classify(v) != SchemaShorthand {
			t.Fatalf("%#v should be shorthand", v)
		}
	}
}

func TestDegenerateIntegerRange(t *testing.T) {
	e := seeded()
	s := schemaOf(t, `{"type":"integer","minimum":5,"maximum":5}`)
	for i := 0; i < 200; i++ {
		if v := e.FromSchema(s); v != int64(5) {
			t.Fatalf("got %#v", v)
		}
	}
	v, err := e.GenerateJSON(`{"type":"object","properties":{"n":{"type":"integer","minimum":5,"maximum":5}},"required":["n"]}`)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n, _ := v.(*jsontool.Map).Get("n"); n != int64(5) {
		t.Fatalf("n = %#v", n)
	}

	// Only an object schema with properties is full at the top level; a bare
	// integer schema is a shorthand template and comes back field by field.
	top, err := e.GenerateJSON(`{"type":"integer","minimum":5,"maximum":5}`)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := jsontool.MapOf("type", "integer", "minimum", 5, "maximum", 5)
	if !jsontool.Equal(top, want) {
		t.Fatalf("top-level integer schema = %#v", top)
	}
}

func TestNumberRangesAndMultipleOf(t *testing.T) {
	e := seeded()
	s := schemaOf(t, `{"type":"number","minimum":10,"maximum":20,"multipleOf":2.5}`)
	for i := 0; i < 200; i++ {
		f, ok := jsontool.AsNumber(e.FromSchema(s))
		if !ok || f < 10 || f > 20 {
			t.Fatalf("out of range: %v", f)
		}
		if k := f / 2.5; k != float64(int64(k)) {
			t.Fatalf("%v is not a multiple of 2.5", f)
		}
	}
	def := schemaOf(t, `{"type":"integer"}`)
	for i := 0; i < 200; i++ {
		n := e.FromSchema(def).(int64)
		if n < 0 || n > 100 {
			t.Fatalf("default range: %d", n)
		}
	}
}

func TestStringKeywords(t *testing.T) {
	e := seeded()
	cases := map[string]any{
		`{"type":"string","format":"date-time"}`: "2024-01-01T00:00:00Z",
		`{"type":"string","format":"date"}`:      "2024-01-01",
		`{"type":"string","format":"time"}`:      "12:00:00",
		`{"type":"string","format":"email"}`:     "user@example.com",
		`{"type":"string","format":"uri"}`:       "https://example.com",
		`{"type":"string","pattern":"^[a-z]+$"}`: "string matching ^[a-z]+$",
		`{"type":"string"}`:                      "example",
		`{"type":["null","boolean"]}`:            nil,
		`{"type":"null"}`:                        nil,
		`{}`:                                     nil,
	}
	for in, want := range cases {
		got := e.FromSchema(schemaOf(t, in))
		if want == nil {
			if in == `{"type":["null","boolean"]}` {
				if _, ok := got.(bool); !ok {
					t.Fatalf("%s: want bool, got %#v", in, got)
				}
				continue
			}
			if got != nil {
				t.Fatalf("%s: want null, got %#v", in, got)
			}
			continue
		}
		if got != want {
			t.Fatalf("%s: got %#v, want %#v", in, got, want)
		}
	}
	enum := schemaOf(t, `{"type":"string","enum":["x","y"]}`)
	for i := 0; i < 50; i++ {
		if v := e.FromSchema(enum); v != "x" && v != "y" {
			t.Fatalf("enum: %#v", v)
		}
	}
}

func TestArrayAndObject(t *testing.T) {
	e := seeded()
	if v := e.FromSchema(schemaOf(t, `{"type":"array"}`)); len(v.([]any)) != 0 {
		t.Fatalf("array without items: %#v", v)
	}
	arr := schemaOf(t, `{"type":"array","items":{"type":"boolean"},"minItems":2,"maxItems":4}`)
	for i := 0; i < 100; i++ {
		if n := len(e.FromSchema(arr).([]any)); n < 2 || n > 4 {
			t.Fatalf("array length %d", n)
		}
	}
	obj := schemaOf(t, `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"integer"},"c":{"type":"boolean"}},"required":["c"]}`)
	sawOptional := false
	for i := 0; i < 100; i++ {
		m := e.FromSchema(obj).(*jsontool.Map)
		if !m.Has("c") {
			t.Fatalf("required property missing: %v", m.Keys())
		}
		if m.Len() > 1 {
			sawOptional = true
		}
		keys := m.Keys()
		if !slices.IsSortedFunc(keys, func(a, b string) int { return slices.Index([]string{"a", "b", "c"}, a) - slices.Index([]string{"a", "b", "c"}, b) }) {
			t.Fatalf("declaration order lost: %v", keys)
		}
	}
	if !sawOptional {
		t.Fatalf("optional properties never generated")
	}
	inferred := schemaOf(t, `{"properties":{"x":{"items":{"type":"null"}}},"required":["x"]}`)
	m := e.FromSchema(inferred).(*jsontool.Map)
	if x, _ := m.Get("x"); x == nil {
		t.Fatalf("nested array type not inferred")
	}
}

func TestShorthandCardinalityAndTypes(t *testing.T) {
	e := seeded()
	names := []any{"李雷", "韩梅梅", "小红", "王大锤"}
	for i := 0; i < 200; i++ {
		v, err := e.Generate([]any{"name"})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		list := v.([]any)
		if len(list) < 1 || len(list) > 3 {
			t.Fatalf("cardinality %d", len(list))
		}
		for _, n := range list {
			if !slices.Contains(names, n) {
				t.Fatalf("unexpected name %#v", n)
			}
		}
	}

	v, err := e.Generate(jsontool.MapOf(
		"id", "uuid",
		"status", "STATUS",
		"role", `["admin", "user"]`,
		"broken", `[admin`,
		"note", "hello",
		"count", 7,
		"pair", []any{"int", "bool-literal"},
	))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	m := v.(*jsontool.Map)
	if got := m.Keys(); !slices.Equal(got, []string{"id", "status", "role", "broken", "note", "count", "pair"}) {
		t.Fatalf("key order: %v", got)
	}
	id, _ := m.Get("id")
	if _, err := uuid.Parse(id.(string)); err != nil {
		t.Fatalf("uuid: %v", err)
	}
	status, _ := m.Get("status")
	if !slices.Contains(Statuses, status.(string)) {
		t.Fatalf("status: %v", status)
	}
	role, _ := m.Get("role")
	if role != "admin" && role != "user" {
		t.Fatalf("enumeration: %v", role)
	}
	if b, _ := m.Get("broken"); b != "[admin" {
		t.Fatalf("malformed enumeration should stay literal: %v", b)
	}
	if n, _ := m.Get("note"); n != "hello" {
		t.Fatalf("literal: %v", n)
	}
	if c, _ := m.Get("count"); c != int64(7) {
		t.Fatalf("non-string scalar: %#v", c)
	}
	pair, _ := m.Get("pair")
	if p := pair.([]any); len(p) != 2 || p[1] != "bool-literal" {
		t.Fatalf("multi-element list: %#v", p)
	}
}

func TestClockAndRegistryOptions(t *testing.T) {
	fixed := time.Date(2030, 5, 6, 7, 8, 9, 0, time.UTC)
	reg := DefaultRegistry().With("answer", func(*rand.Rand, time.Time) any { return int64(42) })
	e := seeded(WithClock(func() time.Time { return fixed }), WithRegistry(reg))
	if v := e.Value("date"); v != "2030-05-06" {
		t.Fatalf("date: %v", v)
	}
	if v := e.Value("Time"); v != "07:08:09" {
		t.Fatalf("time: %v", v)
	}
	if v := e.Value("datetime"); v != "2030-05-06T07:08:09Z" {
		t.Fatalf("datetime: %v", v)
	}
	if v := e.Value("ANSWER"); v != int64(42) {
		t.Fatalf("custom: %v", v)
	}
	if _, ok := DefaultRegistry().Lookup("answer"); ok {
		t.Fatalf("With must not modify the receiver")
	}
}

func TestSeededEnginesAreReproducible(t *testing.T) {
	tmpl := jsontool.MapOf("id", "uuid", "n", "int", "tags", []any{"word"})
	a, _ := seeded().Generate(tmpl)
	b, _ := seeded().Generate(tmpl)
	if !jsontool.Equal(a, b) {
		t.Fatalf("same seed produced different output:\n%#v\n%#v", a, b)
	}
}

func TestGenerateJSON_SchemaError(t *testing.T) {
	_, err := seeded().GenerateJSON(`{"type": "object",`)
	if !errors.Is(err, jsontool.ErrSchema) {
		t.Fatalf("want schema error, got %v", err)
	}
}

func TestRegistryNames(t *testing.T) {
	names := DefaultRegistry().Names()
	for _, want := range []string{"string", "name", "number", "int", "float", "boolean", "null", "date", "time", "email", "uuid", "url", "avatar", "phone", "address", "color", "status", "ip", "company", "word", "text", "age", "price", "id", "datetime"} {
		if !slices.Contains(names, want) {
			t.Fatalf("missing %q in %v", want, names)
		}
	}
}
