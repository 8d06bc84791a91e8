// Package rules evaluates record predicates: field conditions of the form
// {"field": literal} or {"field": {"op": value}}, and CEL expressions over a
// record.
package rules

import (
	"strconv"
	"strings"

	jsontool "github.com/useManner/json-tool"
)

// Matcher reports whether a record satisfies a predicate.
type Matcher interface {
	Match(record any) bool
}

// Op defines the comparison operators of a field condition.
type Op int

const (
	Eq Op = iota
	Ne
	Gt
	Lt
	In
)

var opNames = map[string]Op{"eq": Eq, "ne": Ne, "gt": Gt, "lt": Lt, "in": In}

// ParseOp resolves an operator name. Unknown names report false.
func ParseOp(s string) (Op, bool) {
	op, ok := opNames[s]
	return op, ok
}

func (o Op) String() string {
	for k, v := range opNames {
		if v == o {
			return k
		}
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Conditional is a field predicate or a composition of them. The zero value
// matches every record.
type Conditional struct {
	path []string
	op   Op
	want any
	set  bool
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that compares the value at path with want. The path
// is a JSON Pointer like "/address/city"; a leading slash is optional.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: splitPath(path), op: op, want: jsontool.Normalize(want), set: true}
}

// Field builds a conditional on a top-level key. The key is taken verbatim,
// slashes included.
func Field(name string, op Op, want any) Conditional {
	return Conditional{path: []string{name}, op: op, want: jsontool.Normalize(want), set: true}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Match evaluates the conditional against record. A missing field reads as
// null.
func (c Conditional) Match(record any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Match(record) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Match(record) {
				return true
			}
		}
		return false
	}
	if !c.set {
		return true
	}
	cur, _ := valueAt(record, c.path)
	return compare(cur, c.op, c.want)
}

// FromCondition builds a conditional from a condition mapping. A non-mapping
// value means equality. A mapping value holds one or more {op: value} pairs,
// all of which must hold; unknown operators are ignored.
func FromCondition(cond *jsontool.Map) Conditional {
	var conds []Conditional
	cond.Range(func(field string, v any) bool {
		ops, ok := v.(*jsontool.Map)
		if !ok {
			conds = append(conds, Field(field, Eq, v))
			return true
		}
		ops.Range(func(name string, want any) bool {
			if op, ok := ParseOp(name); ok {
				conds = append(conds, Field(field, op, want))
			}
			return true
		})
		return true
	})
	return IfAll(conds...)
}

// ------- helpers -------

func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// valueAt navigates mappings by key and sequences by index.
func valueAt(v any, path []string) (any, bool) {
	cur := v
	for _, seg := range path {
		switch t := cur.(type) {
		case *jsontool.Map:
			next, ok := t.Get(seg)
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			cur = t[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return jsontool.Equal(cur, want)
	case Ne:
		return !jsontool.Equal(cur, want)
	case Gt, Lt:
		return compareOrdered(cur, op, want)
	case In:
		list, ok := want.([]any)
		if !ok {
			return false
		}
		for _, w := range list {
			if jsontool.Equal(cur, w) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareOrdered is false unless both sides are numbers. Booleans are not
// numbers here.
func compareOrdered(cur any, op Op, want any) bool {
	a, ok := jsontool.AsNumber(cur)
	if !ok {
		return false
	}
	b, ok := jsontool.AsNumber(want)
	if !ok {
		return false
	}
	if op == Gt {
		return a > b
	}
	return a < b
}
