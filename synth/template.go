// Package synth generates synthetic sample data from a template. A template
// is either a full JSON Schema ({"type":"object","properties":{...}}) or a
// shorthand value in which strings name semantic types, one-element lists
// mean "a list of 1-3 of these", and mappings describe nested objects.
//
// An Engine is not safe for concurrent use: it owns its random source.
package synth

import (
	"log/slog"
	"math/rand/v2"
	"time"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/jsonschema"
	"github.com/useManner/json-tool/source/gojson"
)

// SchemaKind tags how a template is interpreted.
type SchemaKind int

const (
	SchemaShorthand SchemaKind = iota
	SchemaFull
)

func (k SchemaKind) String() string {
	if k == SchemaFull {
		return "full"
	}
	return "shorthand"
}

// Classify is the structural predicate that separates full JSON Schema from
// shorthand: a mapping whose "type" is "object" and that has "properties".
func Classify(schema any) SchemaKind {
	m, ok := schema.(*jsontool.Map)
	if !ok {
		return SchemaShorthand
	}
	t, _ := m.Get("type")
	if s, ok := t.(string); ok && s == "object" && m.Has("properties") {
		return SchemaFull
	}
	return SchemaShorthand
}

// Engine generates values. Construct it with New.
type Engine struct {
	rnd   *rand.Rand
	clock func() time.Time
	reg   *Registry
	log   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source, for reproducible output.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rnd = r
		}
	}
}

// WithClock sets the time source used by date and time generators.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithRegistry replaces the semantic type registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.reg = r
		}
	}
}

// WithLogger sets the logger for contained per-field failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an Engine seeded from the runtime's random source unless
// WithRand is given.
func New(opts ...Option) *Engine {
	e := &Engine{
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		clock: time.Now,
		reg:   DefaultRegistry(),
		log:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Registry returns the engine's semantic type registry.
func (e *Engine) Registry() *Registry { return e.reg }

// Generate produces a value for schema, dispatching on Classify.
func (e *Engine) Generate(schema any) (any, error) {
	if Classify(schema) == SchemaFull {
		s, err := jsonschema.FromValue(schema)
		if err != nil {
			return nil, jsontool.SchemaError(err.Error(), err)
		}
		return e.FromSchema(s), nil
	}
	return e.Shorthand(schema), nil
}

// GenerateJSON decodes text as strict JSON and generates from it. Text that
// does not parse is a schema_error and nothing is generated.
func (e *Engine) GenerateJSON(text string) (any, error) {
	schema, err := gojson.DecodeString(text, jsontool.Budget{})
	if err != nil {
		return nil, jsontool.SchemaError("schema is not valid JSON", err)
	}
	return e.Generate(schema)
}

// contain runs fn and turns a panic into a null value.
func (e *Engine) contain(field string, fn func() any) (v any) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("generator failed", "field", field, "panic", r)
			v = nil
		}
	}()
	return fn()
}
