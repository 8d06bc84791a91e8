// Package transform runs lightweight record transforms over decoded values.
//
// A pipeline is an ordered list of steps. Each step receives the previous
// step's result. A step with missing or ill-shaped parameters passes its
// input through unchanged, so a pipeline that is still being assembled keeps
// producing output.
package transform

import (
	"fmt"
	"log/slog"

	jsontool "github.com/useManner/json-tool"
)

// Kind names a step.
type Kind string

const (
	KindGroup     Kind = "group"
	KindFilter    Kind = "filter"
	KindSort      Kind = "sort"
	KindMap       Kind = "map"
	KindFlatten   Kind = "flatten"
	KindAggregate Kind = "aggregate"
)

// Step is one parameterised operation.
type Step struct {
	Kind   Kind
	Params *jsontool.Map
}

// NewStep builds a step from alternating key/value params, like jsontool.MapOf.
func NewStep(kind Kind, params ...any) Step {
	return Step{Kind: kind, Params: jsontool.MapOf(params...)}
}

type stepFunc func(data any, params *jsontool.Map) (any, error)

var stepFuncs = map[Kind]stepFunc{
	KindGroup:     group,
	KindFilter:    filter,
	KindSort:      sortStep,
	KindMap:       mapStep,
	KindFlatten:   flattenStep,
	KindAggregate: aggregate,
}

// Pipeline executes steps strictly in order.
type Pipeline struct {
	steps []Step
	log   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger that receives skipped steps at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New returns a pipeline over steps.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{steps: append([]Step(nil), steps...), log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Steps returns a copy of the pipeline's steps.
func (p *Pipeline) Steps() []Step { return append([]Step(nil), p.steps...) }

// Run applies the steps to a deep copy of data. The input is never modified
// and the result shares no containers with it.
func (p *Pipeline) Run(data any) any {
	cur := jsontool.Clone(data)
	for i, s := range p.steps {
		next, err := p.apply(s, cur)
		if err != nil {
			p.log.Debug("transform step skipped", "index", i, "kind", string(s.Kind), "err", err)
			continue
		}
		cur = next
	}
	return cur
}

// Apply runs steps over data with a default pipeline.
func Apply(data any, steps []Step) any {
	return New(steps).Run(data)
}

// Check reports the first step that would be skipped, without running
// anything on data.
func Check(steps []Step) error {
	for i, s := range steps {
		if _, ok := stepFuncs[s.Kind]; !ok {
			return fmt.Errorf("step %d: %w", i, jsontool.TransformParamError(string(s.Kind), "unknown step kind"))
		}
	}
	return nil
}

func (p *Pipeline) apply(s Step, data any) (out any, err error) {
	fn, ok := stepFuncs[s.Kind]
	if !ok {
		return nil, jsontool.TransformParamError(string(s.Kind), "unknown step kind")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, jsontool.TransformParamError(string(s.Kind), fmt.Sprint(r))
		}
	}()
	return fn(data, s.Params)
}

// ParseSteps decodes a list of {"kind": ..., "params": {...}} mappings. When
// "params" is absent the remaining keys of the mapping are the params.
func ParseSteps(v any) ([]Step, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, jsontool.TransformParamError("", "steps must be a list")
	}
	out := make([]Step, 0, len(list))
	for i, it := range list {
		m, ok := it.(*jsontool.Map)
		if !ok {
			return nil, jsontool.TransformParamError("", fmt.Sprintf("step %d is not an object", i))
		}
		kind, _ := m.Get("kind")
		if kind == nil {
			kind, _ = m.Get("type")
		}
		name, ok := kind.(string)
		if !ok || name == "" {
			return nil, jsontool.TransformParamError("", fmt.Sprintf("step %d has no kind", i))
		}
		params := jsontool.NewMap(0)
		if p, ok := m.Get("params"); ok {
			pm, ok := p.(*jsontool.Map)
			if !ok && p != nil {
				return nil, jsontool.TransformParamError(name, fmt.Sprintf("step %d params must be an object", i))
			}
			if pm != nil {
				params = pm
			}
		} else {
			m.Range(func(k string, v any) bool {
				if k != "kind" && k != "type" {
					params.Set(k, v)
				}
				return true
			})
		}
		out = append(out, Step{Kind: Kind(name), Params: params})
	}
	return out, nil
}
