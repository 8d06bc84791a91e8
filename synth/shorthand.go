package synth

import (
	"strings"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/source/gojson"
)

// Shorthand generates from a shorthand template. Nested full schemas are
// recognised at every level.
func (e *Engine) Shorthand(v any) any {
	switch t := v.(type) {
	case string:
		return e.Value(t)
	case []any:
		if len(t) == 1 {
			n := 1 + e.rnd.IntN(3)
			out := make([]any, n)
			for i := range out {
				out[i] = e.contain("[]", func() any { return e.nested(t[0]) })
			}
			return out
		}
		out := make([]any, len(t))
		for i := range t {
			out[i] = e.contain("[]", func() any { return e.nested(t[i]) })
		}
		return out
	case *jsontool.Map:
		out := jsontool.NewMap(t.Len())
		t.Range(func(k string, sub any) bool {
			out.Set(k, e.contain(k, func() any { return e.nested(sub) }))
			return true
		})
		return out
	}
	return jsontool.Clone(v)
}

func (e *Engine) nested(v any) any {
	out, err := e.Generate(v)
	if err != nil {
		e.log.Debug("nested schema skipped", "err", err)
		return nil
	}
	return out
}

// Value resolves one shorthand string: a registered semantic type, else a
// JSON array literal sampled as an enumeration, else the string itself.
func (e *Engine) Value(name string) any {
	if g, ok := e.reg.Lookup(name); ok {
		return g(e.rnd, e.clock())
	}
	if choices, ok := enumeration(name); ok {
		return e.choose(choices)
	}
	return name
}

// enumeration decodes s as a non-empty JSON array. Anything else, including
// malformed array-like text, is not an enumeration.
func enumeration(s string) ([]any, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}
	v, err := gojson.DecodeString(s, jsontool.Budget{})
	if err != nil {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}
