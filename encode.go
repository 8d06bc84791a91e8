package jsontool

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	j "github.com/goccy/go-json"
)

// EncodeOptions controls JSON text rendering.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level. Zero renders compact
	// output with no insignificant whitespace.
	Indent int
	// SortKeys orders mapping keys lexically instead of by insertion.
	SortKeys bool
	// ASCII escapes every non-ASCII character as \uXXXX.
	ASCII bool
}

// EncodeJSON renders a StructuredValue as JSON text. Non-finite floats are
// written as NaN, Infinity and -Infinity.
func EncodeJSON(v any, opt EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	e := &encoder{buf: &buf, opt: opt}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders the map compactly in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return EncodeJSON(m, EncodeOptions{})
}

type encoder struct {
	buf *bytes.Buffer
	opt EncodeOptions
}

func (e *encoder) newline(depth int) {
	if e.opt.Indent <= 0 {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(" ", e.opt.Indent*depth))
}

func (e *encoder) value(v any, depth int) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		return e.str(t)
	case []any:
		if len(t) == 0 {
			e.buf.WriteString("[]")
			return nil
		}
		e.buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			if err := e.value(item, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.buf.WriteByte(']')
	case *Map:
		if t.Len() == 0 {
			e.buf.WriteString("{}")
			return nil
		}
		if e.opt.SortKeys {
			t = t.Sorted()
		}
		e.buf.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			if err := e.str(k); err != nil {
				return err
			}
			e.buf.WriteByte(':')
			if e.opt.Indent > 0 {
				e.buf.WriteByte(' ')
			}
			item, _ := t.Get(k)
			if err := e.value(item, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.buf.WriteByte('}')
	default:
		if _, ok := AsNumber(v); ok {
			e.buf.WriteString(FormatScalar(v))
			return nil
		}
		return fmt.Errorf("jsontool: cannot encode %T", v)
	}
	return nil
}

func (e *encoder) str(s string) error {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	b, err := j.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	if !e.opt.ASCII {
		e.buf.Write(b)
		return nil
	}
	for _, r := range string(b) {
		if r < utf8.RuneSelf {
			e.buf.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(e.buf, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(e.buf, `\u%04x`, r)
	}
	return nil
}

// FormatScalar returns the canonical text of a scalar: "null", "true",
// "false", decimal numbers, or the string itself. Containers render as compact
// JSON.
func FormatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return formatFloat(t)
	case []any, *Map:
		b, err := EncodeJSON(t, EncodeOptions{})
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
	if f, ok := AsNumber(v); ok {
		return formatFloat(f)
	}
	return fmt.Sprint(v)
}

// formatFloat uses positional notation for decimal exponents in [-4, 16) and
// scientific notation otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp >= -4 && exp < 16 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return sci
}
