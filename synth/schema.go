package synth

import (
	"math"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/jsonschema"
)

// Canonical values for string formats.
var formatValues = map[string]string{
	"date-time": "2024-01-01T00:00:00Z",
	"date":      "2024-01-01",
	"time":      "12:00:00",
	"email":     "user@example.com",
	"uri":       "https://example.com",
}

const (
	defaultMinimum  = 0
	defaultMaximum  = 100
	defaultMinItems = 1
	defaultMaxItems = 3
	placeholder     = "example"
)

// FromSchema generates a value from a typed schema. A nil schema yields null.
func (e *Engine) FromSchema(s *jsonschema.Schema) any {
	switch s.PrimaryType() {
	case "string":
		return e.genString(s)
	case "integer":
		return e.genNumber(s, true)
	case "number":
		return e.genNumber(s, false)
	case "boolean":
		return e.rnd.IntN(2) == 0
	case "array":
		return e.genArray(s)
	case "object":
		return e.genObject(s)
	}
	return nil
}

func (e *Engine) choose(values []any) any {
	return jsontool.Clone(values[e.rnd.IntN(len(values))])
}

func (e *Engine) genString(s *jsonschema.Schema) any {
	switch {
	case len(s.Enum) > 0:
		return e.choose(s.Enum)
	case formatValues[s.Format] != "":
		return formatValues[s.Format]
	case s.Pattern != "":
		return "string matching " + s.Pattern
	}
	return placeholder
}

func (e *Engine) genNumber(s *jsonschema.Schema, integer bool) any {
	if len(s.Enum) > 0 {
		return e.choose(s.Enum)
	}
	lo, hi := float64(defaultMinimum), float64(defaultMaximum)
	if s.Minimum != nil {
		lo = *s.Minimum
	}
	if s.Maximum != nil {
		hi = *s.Maximum
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if s.MultipleOf != nil && !integer {
		m := *s.MultipleOf
		k0, k1 := math.Ceil(lo/m), math.Floor(hi/m)
		if k1 < k0 {
			return jsontool.Number(lo)
		}
		k := k0 + float64(e.rnd.Int64N(int64(k1-k0)+1))
		return jsontool.Number(k * m)
	}
	if integer {
		a, b := int64(math.Ceil(lo)), int64(math.Floor(hi))
		if b < a {
			return a
		}
		return a + e.rnd.Int64N(b-a+1)
	}
	return round2(lo + e.rnd.Float64()*(hi-lo))
}

func (e *Engine) genArray(s *jsonschema.Schema) any {
	if s.Items == nil {
		return []any{}
	}
	lo, hi := defaultMinItems, defaultMaxItems
	if s.MinItems != nil {
		lo = *s.MinItems
	}
	if s.MaxItems != nil {
		hi = *s.MaxItems
	}
	if hi < lo {
		hi = lo
	}
	n := lo + e.rnd.IntN(hi-lo+1)
	out := make([]any, n)
	for i := range out {
		out[i] = e.contain("[]", func() any { return e.FromSchema(s.Items) })
	}
	return out
}

// genObject includes every required property and each optional one with
// probability one half, in declaration order.
func (e *Engine) genObject(s *jsonschema.Schema) any {
	out := jsontool.NewMap(len(s.Properties))
	for _, p := range s.Properties {
		if !s.IsRequired(p.Name) && e.rnd.IntN(2) == 0 {
			continue
		}
		out.Set(p.Name, e.contain(p.Name, func() any { return e.FromSchema(p.Schema) }))
	}
	return out
}
