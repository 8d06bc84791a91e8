package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"

	jsontool "github.com/useManner/json-tool"
)

// RecordVar is the CEL variable bound to the record under evaluation.
const RecordVar = "record"

// costLimit bounds the work a single evaluation may do.
const costLimit = 1000000

// Expression is a compiled CEL predicate over one record, e.g.
// `record.age > 30 && record.city == "Berlin"`.
type Expression struct {
	src  string
	prog cel.Program
}

// NewEnv returns the CEL environment expressions are compiled in.
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(cel.Variable(RecordVar, cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// Compile parses and checks src. The expression must produce a bool.
func Compile(src string) (*Expression, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", iss.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression yields %s, want bool", t)
	}
	prog, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	return &Expression{src: src, prog: prog}, nil
}

// String returns the source text.
func (e *Expression) String() string { return e.src }

// Eval evaluates the expression against record. Non-boolean results are
// false.
func (e *Expression) Eval(record any) (bool, error) {
	out, _, err := e.prog.Eval(map[string]any{RecordVar: jsontool.ToPlain(record)})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	return ok && b, nil
}

// Match is Eval with evaluation errors treated as non-matching.
func (e *Expression) Match(record any) bool {
	ok, err := e.Eval(record)
	return err == nil && ok
}
