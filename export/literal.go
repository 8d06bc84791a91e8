package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	jsontool "github.com/useManner/json-tool"
)

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// JS renders v as a JavaScript declaration, `const name = {...};`, with
// identifier keys left unquoted.
func JS(v any, name string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "const %s = ", varName(name))
	if err := writeLiteral(&buf, v, 0); err != nil {
		return nil, exportError("js", err)
	}
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// TS renders v as a TypeScript interface inferred from the first record
// followed by a typed const declaration.
func TS(v any, name string) ([]byte, error) {
	vn := varName(name)
	typ := typeName(vn)
	sample, isList := v, false
	if list, ok := v.([]any); ok {
		isList = true
		sample = nil
		if len(list) > 0 {
			sample = list[0]
		}
	}

	var buf bytes.Buffer
	if m, ok := sample.(*jsontool.Map); ok {
		fmt.Fprintf(&buf, "export interface %s ", typ)
		writeInterface(&buf, m, 0)
		buf.WriteString("\n\n")
	} else {
		fmt.Fprintf(&buf, "export type %s = %s;\n\n", typ, tsType(sample, 0))
	}
	if isList {
		typ += "[]"
	}
	fmt.Fprintf(&buf, "export const %s: %s = ", vn, typ)
	if err := writeLiteral(&buf, v, 0); err != nil {
		return nil, exportError("ts", err)
	}
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

func varName(name string) string {
	if identRE.MatchString(name) {
		return name
	}
	return "data"
}

func typeName(name string) string {
	r := []rune(strings.TrimLeft(name, "_$"))
	if len(r) == 0 {
		return "Data"
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func propName(k string) (string, error) {
	if identRE.MatchString(k) {
		return k, nil
	}
	b, err := jsontool.EncodeJSON(k, jsontool.EncodeOptions{})
	return string(b), err
}

func indent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}

func writeLiteral(buf *bytes.Buffer, v any, depth int) error {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range t {
			indent(buf, depth+1)
			if err := writeLiteral(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(t)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
		return nil
	case *jsontool.Map:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, k := range t.Keys() {
			indent(buf, depth+1)
			p, err := propName(k)
			if err != nil {
				return err
			}
			buf.WriteString(p)
			buf.WriteString(": ")
			item, _ := t.Get(k)
			if err := writeLiteral(buf, item, depth+1); err != nil {
				return err
			}
			if i < t.Len()-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte('}')
		return nil
	}
	b, err := jsontool.EncodeJSON(v, jsontool.EncodeOptions{})
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeInterface(buf *bytes.Buffer, m *jsontool.Map, depth int) {
	if m.Len() == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	m.Range(func(k string, v any) bool {
		indent(buf, depth+1)
		p, err := propName(k)
		if err != nil {
			p = "_"
		}
		fmt.Fprintf(buf, "%s: %s;\n", p, tsType(v, depth+1))
		return true
	})
	indent(buf, depth)
	buf.WriteByte('}')
}

// tsType infers a type from one sample value. Arrays take the type of their
// first element.
func tsType(v any, depth int) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		if len(t) == 0 {
			return "unknown[]"
		}
		return tsType(t[0], depth) + "[]"
	case *jsontool.Map:
		var buf bytes.Buffer
		writeInterface(&buf, t, depth)
		return buf.String()
	}
	if _, ok := jsontool.AsNumber(v); ok {
		return "number"
	}
	return "unknown"
}
