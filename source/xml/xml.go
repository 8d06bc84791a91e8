// Package xml converts XML documents into StructuredValues using the common
// attribute/text convention: attributes become "@name" keys, text next to
// attributes or children becomes "#text", repeated sibling elements collapse
// into a sequence, and an empty element is null. The result is a mapping with
// the root element name as its single key.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	jsontool "github.com/useManner/json-tool"
)

const (
	AttrPrefix = "@"
	TextKey    = "#text"
)

var (
	ErrNoRoot        = errors.New("xml: no root element")
	ErrMultipleRoots = errors.New("xml: content after root element")
)

type frame struct {
	name string
	m    *jsontool.Map
	text strings.Builder
}

func (f *frame) value() any {
	text := strings.TrimSpace(f.text.String())
	if f.m.Len() == 0 {
		if text == "" {
			return nil
		}
		return text
	}
	if text != "" {
		f.m.Set(TextKey, text)
	}
	return f.m
}

func (f *frame) addChild(name string, v any) {
	prev, ok := f.m.Get(name)
	if !ok {
		f.m.Set(name, v)
		return
	}
	if list, isList := prev.([]any); isList {
		f.m.Set(name, append(list, v))
		return
	}
	f.m.Set(name, []any{prev, v})
}

// Decode parses one XML document. Namespace prefixes are kept verbatim in
// element and attribute names.
func Decode(data []byte, b jsontool.Budget) (any, error) {
	if b.MaxBytes > 0 && int64(len(data)) > b.MaxBytes {
		return nil, jsontool.NewIssue(jsontool.CodeTooBig, "max bytes exceeded", nil)
	}
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	var (
		stack []*frame
		root  *jsontool.Map
	)
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, ErrMultipleRoots
			}
			if len(stack)+2 > b.DepthLimit() {
				return nil, jsontool.Issues{{Path: "/" + strings.Join(names(stack), "/"), Code: jsontool.CodeTooDeep, Message: "max depth exceeded"}}
			}
			f := &frame{name: qualified(t.Name), m: jsontool.NewMap(len(t.Attr))}
			for _, a := range t.Attr {
				f.m.Set(AttrPrefix+qualified(a.Name), a.Value)
			}
			stack = append(stack, f)
		case xml.EndElement:
			n := len(stack)
			if n == 0 {
				return nil, fmt.Errorf("xml: unexpected end element </%s>", qualified(t.Name))
			}
			f := stack[n-1]
			if name := qualified(t.Name); name != f.name {
				return nil, fmt.Errorf("xml: element <%s> closed by </%s>", f.name, name)
			}
			stack = stack[:n-1]
			if n == 1 {
				root = jsontool.NewMap(1)
				root.Set(f.name, f.value())
				continue
			}
			stack[n-2].addChild(f.name, f.value())
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					if root != nil {
						return nil, ErrMultipleRoots
					}
					return nil, ErrNoRoot
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("xml: unclosed element <%s>: %w", stack[len(stack)-1].name, io.ErrUnexpectedEOF)
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func names(stack []*frame) []string {
	out := make([]string, len(stack))
	for i, f := range stack {
		out[i] = f.name
	}
	return out
}
