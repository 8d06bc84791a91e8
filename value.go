package jsontool

import (
	"math"
	"sort"
	"strconv"
)

// A StructuredValue is represented as a plain Go value holding exactly one of:
//
//	nil, bool, int64, float64, string, []any, *Map
//
// Decoders normalise integral numbers to int64 and everything else to
// float64. Equal compares numbers by value, so int64(5) equals float64(5).

// Map is a string-keyed mapping that preserves insertion order. The zero
// value is ready to use.
type Map struct {
	keys []string
	vals map[string]any
}

// NewMap returns an empty Map with room for n entries.
func NewMap(n int) *Map {
	return &Map{keys: make([]string, 0, n), vals: make(map[string]any, n)}
}

// MapOf builds a Map from alternating key/value arguments. It panics on an odd
// argument count or a non-string key, and is intended for literals in code and
// tests.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("jsontool.MapOf: odd argument count")
	}
	m := NewMap(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("jsontool.MapOf: non-string key")
		}
		m.Set(k, Normalize(kv[i+1]))
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.vals == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set inserts or replaces key. A replaced key keeps its original position.
func (m *Map) Set(key string, v any) {
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if m == nil || m.vals == nil {
		return
	}
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(key string, v any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Sorted returns a shallow copy with keys in lexical order.
func (m *Map) Sorted() *Map {
	out := NewMap(m.Len())
	keys := append([]string(nil), m.Keys()...)
	sort.Strings(keys)
	for _, k := range keys {
		out.Set(k, m.vals[k])
	}
	return out
}

// Clone returns a deep copy of a StructuredValue.
func Clone(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return (*Map)(nil)
		}
		out := NewMap(t.Len())
		for _, k := range t.keys {
			out.Set(k, Clone(t.vals[k]))
		}
		return out
	case []any:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	default:
		return v
	}
}

// Equal reports deep equality of two StructuredValues. Mapping equality is
// order-insensitive; numbers compare by value.
func Equal(a, b any) bool {
	if fa, ok := AsNumber(a); ok {
		fb, ok := AsNumber(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.Keys() {
			yv, ok := y.Get(k)
			if !ok {
				return false
			}
			xv, _ := x.Get(k)
			if !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// AsNumber reports whether v is numeric and returns it as float64. Booleans
// are not numbers.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Number normalises f to int64 when it is integral and representable, so that
// generated and decoded numbers share one representation.
func Number(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	if f == math.Trunc(f) && f >= -(1<<53) && f <= 1<<53 {
		return int64(f)
	}
	return f
}

// ParseNumber converts numeric text to int64 or float64.
func ParseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return Number(f), nil
}

// Normalize converts common Go values (ints, float32, map[string]any,
// []string, ...) into StructuredValue form. Unordered maps are inserted in
// sorted key order.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, bool, int64, float64, string, *Map:
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Normalize(t[i])
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap(len(keys))
		for _, k := range keys {
			m.Set(k, Normalize(t[k]))
		}
		return m
	}
	return v
}

// ToPlain converts a StructuredValue to encoding/json-style values
// (map[string]any, []any) for libraries that do not understand Map.
func ToPlain(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil
		}
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = ToPlain(t.vals[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = ToPlain(t[i])
		}
		return out
	default:
		return v
	}
}

// TypeName returns the JSON type name of v ("object", "array", "string",
// "number", "boolean", "null").
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case *Map:
		return "object"
	}
	if _, ok := AsNumber(v); ok {
		return "number"
	}
	return "unknown"
}
