// Package enhance overrides or adds fields on decoded records, either with a
// literal or with a freshly generated sample value.
//
// A directive that starts with "=" sets the literal remainder ("=locked"
// sets "locked"). Any other directive is a semantic type name resolved the
// way shorthand templates resolve strings.
package enhance

import (
	"strings"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/synth"
)

// LiteralPrefix marks a directive whose remainder is used verbatim.
const LiteralPrefix = "="

// Enhancer applies directives. Construct it with New.
type Enhancer struct {
	gen *synth.Engine
}

// New returns an Enhancer drawing generated values from gen, or from a
// fresh engine when gen is nil.
func New(gen *synth.Engine) *Enhancer {
	if gen == nil {
		gen = synth.New()
	}
	return &Enhancer{gen: gen}
}

// Enhance applies spec to data with a fresh engine.
func Enhance(data any, spec *jsontool.Map) any {
	return New(nil).Enhance(data, spec)
}

// Enhance returns a copy of data in which every mapping, at any depth of
// nested sequences, has each spec key set from its directive. Other values
// pass through unchanged. Each record gets its own generated values.
func (e *Enhancer) Enhance(data any, spec *jsontool.Map) any {
	switch t := data.(type) {
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = e.Enhance(v, spec)
		}
		return out
	case *jsontool.Map:
		out := jsontool.Clone(t).(*jsontool.Map)
		spec.Range(func(key string, d any) bool {
			out.Set(key, e.resolve(d))
			return true
		})
		return out
	}
	return jsontool.Clone(data)
}

// resolve evaluates one directive. Non-string directives are set as given.
func (e *Enhancer) resolve(d any) any {
	s, ok := d.(string)
	if !ok {
		return jsontool.Clone(d)
	}
	if lit, ok := strings.CutPrefix(s, LiteralPrefix); ok {
		return lit
	}
	return e.gen.Value(s)
}

// ParseSpec accepts a directive mapping from a decoded value.
func ParseSpec(v any) (*jsontool.Map, error) {
	m, ok := v.(*jsontool.Map)
	if !ok {
		return nil, jsontool.SchemaError("enhance spec must be an object of field directives", nil)
	}
	return m, nil
}
