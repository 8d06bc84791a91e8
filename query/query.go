// Package query extracts values from a decoded document with JSONPath
// expressions such as "$.store.book[?(@.price < 10)].title".
//
// Matches are returned in document order: mapping keys in insertion order,
// sequence elements by index, a parent before its descendants.
package query

import (
	"errors"
	"slices"
	"strings"

	"github.com/ohler55/ojg/jp"

	jsontool "github.com/useManner/json-tool"
)

// ErrEmptyPath is returned for a blank expression.
var ErrEmptyPath = errors.New("query: empty JSONPath expression")

// Query is a compiled JSONPath expression.
type Query struct {
	src  string
	expr jp.Expr
}

// Compile parses a JSONPath expression.
func Compile(path string) (*Query, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, queryError(path, ErrEmptyPath)
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, queryError(path, err)
	}
	return &Query{src: path, expr: x}, nil
}

// String returns the expression text.
func (q *Query) String() string { return q.src }

// Extract returns copies of every value matched in data. No match is an
// empty, non-nil list.
func (q *Query) Extract(data any) []any {
	type match struct {
		order []int
		value any
	}
	var ms []match
	for _, loc := range q.expr.Locate(jsontool.ToPlain(data), 0) {
		v, order, ok := resolve(data, loc)
		if !ok {
			continue
		}
		ms = append(ms, match{order: order, value: v})
	}
	slices.SortStableFunc(ms, func(a, b match) int { return slices.Compare(a.order, b.order) })
	out := make([]any, 0, len(ms))
	for i, m := range ms {
		if i > 0 && slices.Equal(ms[i-1].order, m.order) {
			continue
		}
		out = append(out, jsontool.Clone(m.value))
	}
	return out
}

// Extract compiles path and applies it to data.
func Extract(data any, path string) ([]any, error) {
	q, err := Compile(path)
	if err != nil {
		return nil, err
	}
	return q.Extract(data), nil
}

// resolve follows a normalized location through the ordered value and
// returns the value with its position path.
func resolve(v any, loc jp.Expr) (any, []int, bool) {
	cur := v
	order := []int{}
	for _, frag := range loc {
		switch f := frag.(type) {
		case jp.Root, jp.At:
		case jp.Child:
			m, ok := cur.(*jsontool.Map)
			if !ok {
				return nil, nil, false
			}
			idx := slices.Index(m.Keys(), string(f))
			if idx < 0 {
				return nil, nil, false
			}
			cur, _ = m.Get(string(f))
			order = append(order, idx)
		case jp.Nth:
			list, ok := cur.([]any)
			if !ok {
				return nil, nil, false
			}
			i := int(f)
			if i < 0 {
				i += len(list)
			}
			if i < 0 || i >= len(list) {
				return nil, nil, false
			}
			cur = list[i]
			order = append(order, i)
		default:
			return nil, nil, false
		}
	}
	return cur, order, true
}

func queryError(path string, err error) error {
	return jsontool.Issues{{
		Path:    "/",
		Code:    jsontool.CodeQueryError,
		Message: err.Error(),
		Cause:   err,
		Params:  map[string]any{"path": path},
	}}
}
