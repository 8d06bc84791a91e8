// Package detect turns raw text of unknown format into a StructuredValue by
// trying a fixed cascade of decoders. The first decoder that succeeds wins;
// a failure or panic inside one decoder never aborts the cascade.
//
// Default order:
//
//  1. several pasted JS objects ("{a:1},{b:2}")
//  2. permissive JS object literal
//  3. strict JSON
//  4. Python-like literal
//  5. YAML (bare scalars are held back as a last resort)
//  6. XML
//  7. CSV/TSV, when the input has a comma and a newline
//  8. URL query, when the input has '='
package detect

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	jsontool "github.com/useManner/json-tool"
)

// Result is a decoded value and the grammar that produced it.
type Result struct {
	Value  any
	Format jsontool.Format
}

// ErrWeakMatch is returned by a strategy that decoded the input but only
// trivially (for example YAML reading arbitrary text as one string). The
// result is kept and used only if no later strategy succeeds.
var ErrWeakMatch = errors.New("detect: weak match")

// Strategy is one attempt in the cascade.
type Strategy struct {
	Name   string
	Format jsontool.Format
	// Applies gates the attempt on cheap textual hints; nil means always.
	Applies func(trimmed string) bool
	Decode  func(trimmed string, b jsontool.Budget) (Result, error)
}

// Detector runs the cascade. It holds no mutable state and is safe to reuse.
type Detector struct {
	log        *slog.Logger
	budget     jsontool.Budget
	strategies []Strategy
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for per-strategy debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// WithMaxBytes rejects inputs longer than n bytes. Zero disables the limit.
func WithMaxBytes(n int64) Option { return func(d *Detector) { d.budget.MaxBytes = n } }

// WithMaxDepth bounds container nesting. Zero leaves only the
// jsontool.HardMaxDepth cap.
func WithMaxDepth(n int) Option { return func(d *Detector) { d.budget.MaxDepth = n } }

// WithDuplicatePolicy selects how repeated mapping keys are treated.
func WithDuplicatePolicy(p jsontool.DuplicatePolicy) Option {
	return func(d *Detector) { d.budget.OnDuplicate = p }
}

// WithStrategies replaces the cascade.
func WithStrategies(s ...Strategy) Option {
	return func(d *Detector) { d.strategies = append([]Strategy(nil), s...) }
}

// New returns a Detector using the default cascade unless overridden.
func New(opts ...Option) *Detector {
	d := &Detector{log: slog.New(slog.DiscardHandler), strategies: DefaultStrategies()}
	for _, o := range opts {
		o(d)
	}
	return d
}

var std = New()

// Detect runs the default Detector.
func Detect(raw string) (Result, error) { return std.Detect(raw) }

// Detect decodes raw with the first strategy that accepts it. When every
// strategy fails the error is a single unrecognized_format issue, or the
// first budget violation if one was hit along the way.
func (d *Detector) Detect(raw string) (Result, error) {
	trimmed := strings.TrimSpace(raw)
	if d.budget.MaxBytes > 0 && int64(len(trimmed)) > d.budget.MaxBytes {
		return Result{}, jsontool.NewIssue(jsontool.CodeTooBig, fmt.Sprintf("input exceeds %d bytes", d.budget.MaxBytes), nil)
	}
	if trimmed == "" {
		return Result{}, unrecognized("empty input")
	}
	var (
		weak      *Result
		budgetErr error
	)
	for _, s := range d.strategies {
		if s.Applies != nil && !s.Applies(trimmed) {
			continue
		}
		res, err := d.attempt(s, trimmed)
		if err == nil {
			d.log.Debug("format detected", "strategy", s.Name, "format", res.Format.String())
			return res, nil
		}
		if errors.Is(err, ErrWeakMatch) {
			if weak == nil {
				weak = &res
			}
			d.log.Debug("weak match deferred", "strategy", s.Name)
			continue
		}
		if budgetErr == nil && isBudgetIssue(err) {
			budgetErr = err
		}
		d.log.Debug("strategy did not apply", "strategy", s.Name, "err", err)
	}
	if weak != nil {
		d.log.Debug("falling back to weak match", "format", weak.Format.String())
		return *weak, nil
	}
	if budgetErr != nil {
		return Result{}, budgetErr
	}
	return Result{}, unrecognized("no decoder accepted the input")
}

// DecodeAs decodes raw with the strategy registered for format, reporting
// its error instead of continuing the cascade. Textual hints are not checked.
func (d *Detector) DecodeAs(raw string, format jsontool.Format) (Result, error) {
	for _, s := range d.strategies {
		if s.Format != format {
			continue
		}
		res, err := d.attempt(s, strings.TrimSpace(raw))
		if errors.Is(err, ErrWeakMatch) {
			err = nil
		}
		if err != nil {
			if _, ok := jsontool.AsIssues(err); ok {
				return Result{}, err
			}
			return Result{}, jsontool.Issues{{
				Path:    "/",
				Code:    jsontool.CodeParseError,
				Message: err.Error(),
				Cause:   err,
				Params:  map[string]any{"format": format.String()},
			}}
		}
		return res, nil
	}
	return Result{}, fmt.Errorf("detect: no decoder for format %s", format)
}

// DecodeAs runs the default Detector.
func DecodeAs(raw string, format jsontool.Format) (Result, error) {
	return std.DecodeAs(raw, format)
}

func (d *Detector) attempt(s Strategy, trimmed string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detect: %s panicked: %v", s.Name, r)
		}
	}()
	return s.Decode(trimmed, d.budget)
}

func unrecognized(msg string) error {
	return jsontool.Issues{{Path: "/", Code: jsontool.CodeUnrecognizedFormat, Message: msg, Cause: jsontool.ErrUnrecognizedFormat}}
}

func isBudgetIssue(err error) bool {
	iss, ok := jsontool.AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == jsontool.CodeTooDeep || it.Code == jsontool.CodeTooBig {
			return true
		}
	}
	return false
}
