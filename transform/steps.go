package transform

import (
	"cmp"
	"slices"
	"strings"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/rules"
)

func paramError(kind Kind, msg string) error {
	return jsontool.TransformParamError(string(kind), msg)
}

func records(kind Kind, data any) ([]any, error) {
	list, ok := data.([]any)
	if !ok {
		return nil, paramError(kind, "input is not a sequence")
	}
	return list, nil
}

func stringParam(p *jsontool.Map, key string) (string, bool) {
	v, _ := p.Get(key)
	s, ok := v.(string)
	return s, ok && s != ""
}

func field(record any, name string) (any, bool) {
	m, ok := record.(*jsontool.Map)
	if !ok {
		return nil, false
	}
	return m.Get(name)
}

// group maps the canonical text of each distinct field value, in first-seen
// order, to the records carrying it. Mapping keys are text, so values with
// the same text share a group: a missing field, a null and the string "null"
// all land under "null", as do 1 and "1".
func group(data any, p *jsontool.Map) (any, error) {
	name, ok := stringParam(p, "field")
	if !ok {
		return nil, paramError(KindGroup, "field is required")
	}
	list, err := records(KindGroup, data)
	if err != nil {
		return nil, err
	}
	out := jsontool.NewMap(0)
	for _, r := range list {
		v, _ := field(r, name)
		key := jsontool.FormatScalar(v)
		cur, _ := out.Get(key)
		members, _ := cur.([]any)
		out.Set(key, append(members, r))
	}
	return out, nil
}

// filter keeps the records matching "condition" and "expression". At least
// one of the two is required.
func filter(data any, p *jsontool.Map) (any, error) {
	var ms []rules.Matcher
	if v, ok := p.Get("condition"); ok {
		cond, ok := v.(*jsontool.Map)
		if !ok {
			return nil, paramError(KindFilter, "condition must be an object")
		}
		ms = append(ms, rules.FromCondition(cond))
	}
	if src, ok := stringParam(p, "expression"); ok {
		expr, err := rules.Compile(src)
		if err != nil {
			return nil, paramError(KindFilter, err.Error())
		}
		ms = append(ms, expr)
	}
	if len(ms) == 0 {
		return nil, paramError(KindFilter, "condition or expression is required")
	}
	list, err := records(KindFilter, data)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(list))
next:
	for _, r := range list {
		for _, m := range ms {
			if !m.Match(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// sortStep is a stable sort on one field. Two numbers compare numerically;
// anything else compares by canonical text, with a missing field reading as
// the empty string.
func sortStep(data any, p *jsontool.Map) (any, error) {
	name, ok := stringParam(p, "field")
	if !ok {
		return nil, paramError(KindSort, "field is required")
	}
	reverse := false
	if v, ok := p.Get("reverse"); ok {
		b, ok := v.(bool)
		if !ok && v != nil {
			return nil, paramError(KindSort, "reverse must be a boolean")
		}
		reverse = b
	}
	list, err := records(KindSort, data)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b any) int {
		if reverse {
			a, b = b, a
		}
		return compareField(a, b, name)
	})
	return out, nil
}

func compareField(a, b any, name string) int {
	va, ok := field(a, name)
	if !ok {
		va = ""
	}
	vb, ok := field(b, name)
	if !ok {
		vb = ""
	}
	na, aNum := jsontool.AsNumber(va)
	nb, bNum := jsontool.AsNumber(vb)
	if aNum && bNum {
		return cmp.Compare(na, nb)
	}
	return strings.Compare(sortText(va), sortText(vb))
}

func sortText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return jsontool.FormatScalar(v)
}

// mapStep projects each record onto the keys named in "mapping", renamed to
// the mapped names, in mapping order. Keys a record lacks are omitted.
func mapStep(data any, p *jsontool.Map) (any, error) {
	v, _ := p.Get("mapping")
	mapping, ok := v.(*jsontool.Map)
	if !ok {
		return nil, paramError(KindMap, "mapping must be an object")
	}
	project := func(r any) any {
		m, ok := r.(*jsontool.Map)
		if !ok {
			return r
		}
		out := jsontool.NewMap(mapping.Len())
		mapping.Range(func(from string, to any) bool {
			name, ok := to.(string)
			if !ok {
				return true
			}
			if v, ok := m.Get(from); ok {
				out.Set(name, v)
			}
			return true
		})
		return out
	}
	if list, ok := data.([]any); ok {
		out := make([]any, len(list))
		for i, r := range list {
			out[i] = project(r)
		}
		return out, nil
	}
	return project(data), nil
}

func flattenStep(data any, _ *jsontool.Map) (any, error) {
	list, ok := data.([]any)
	if !ok {
		return data, nil
	}
	return flatten(list, nil), nil
}

func flatten(list, out []any) []any {
	if out == nil {
		out = make([]any, 0, len(list))
	}
	for _, v := range list {
		if sub, ok := v.([]any); ok {
			out = flatten(sub, out)
			continue
		}
		out = append(out, v)
	}
	return out
}
