package transform

import (
	jsontool "github.com/useManner/json-tool"
)

type metric struct {
	field string
	op    string
	as    string
}

type bucket struct {
	keys    []any
	members []any
}

// aggregate groups records by the tuple of "group_by" values, in first-seen
// order, and emits one record per group: the group_by fields followed by each
// metric. A missing or null metric field counts as 0; non-numeric values are
// left out of numeric ops.
func aggregate(data any, p *jsontool.Map) (any, error) {
	by, err := groupBy(p)
	if err != nil {
		return nil, err
	}
	metrics, err := parseMetrics(p)
	if err != nil {
		return nil, err
	}
	list, err := records(KindAggregate, data)
	if err != nil {
		return nil, err
	}

	var order []string
	buckets := map[string]*bucket{}
	for _, r := range list {
		keys := make([]any, len(by))
		for i, name := range by {
			keys[i], _ = field(r, name)
		}
		id := jsontool.FormatScalar(keys)
		b, ok := buckets[id]
		if !ok {
			b = &bucket{keys: keys}
			buckets[id] = b
			order = append(order, id)
		}
		b.members = append(b.members, r)
	}

	out := make([]any, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		rec := jsontool.NewMap(len(by) + len(metrics))
		for i, name := range by {
			rec.Set(name, b.keys[i])
		}
		for _, m := range metrics {
			if v, ok := m.eval(b.members); ok {
				rec.Set(m.as, v)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func groupBy(p *jsontool.Map) ([]string, error) {
	v, _ := p.Get("group_by")
	switch t := v.(type) {
	case string:
		if t != "" {
			return []string{t}, nil
		}
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, paramError(KindAggregate, "group_by entries must be strings")
			}
			out = append(out, s)
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, paramError(KindAggregate, "group_by is required")
}

func parseMetrics(p *jsontool.Map) ([]metric, error) {
	v, ok := p.Get("metrics")
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, paramError(KindAggregate, "metrics must be a list")
	}
	out := make([]metric, 0, len(list))
	for _, it := range list {
		m, ok := it.(*jsontool.Map)
		if !ok {
			return nil, paramError(KindAggregate, "metric must be an object")
		}
		f, _ := stringParam(m, "field")
		op, _ := stringParam(m, "op")
		as, ok := stringParam(m, "as")
		if !ok {
			as = op + "_" + f
		}
		out = append(out, metric{field: f, op: op, as: as})
	}
	return out, nil
}

// eval computes the metric over members. Unknown ops report false.
func (m metric) eval(members []any) (any, bool) {
	if m.op == "count" {
		return int64(len(members)), true
	}
	var vals []float64
	for _, r := range members {
		v, ok := field(r, m.field)
		if !ok || v == nil {
			vals = append(vals, 0)
			continue
		}
		if f, ok := jsontool.AsNumber(v); ok {
			vals = append(vals, f)
		}
	}
	switch m.op {
	case "sum":
		return jsontool.Number(sum(vals)), true
	case "avg":
		if len(vals) == 0 {
			return int64(0), true
		}
		return jsontool.Number(sum(vals) / float64(len(vals))), true
	case "max", "min":
		if len(vals) == 0 {
			return nil, true
		}
		best := vals[0]
		for _, f := range vals[1:] {
			if (m.op == "max" && f > best) || (m.op == "min" && f < best) {
				best = f
			}
		}
		return jsontool.Number(best), true
	}
	return nil, false
}

func sum(vals []float64) float64 {
	var s float64
	for _, f := range vals {
		s += f
	}
	return s
}
