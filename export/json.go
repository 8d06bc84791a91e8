// Package export renders decoded values as text and spreadsheet formats:
// pretty or minified JSON, YAML, JavaScript and TypeScript literals, CSV and
// XLSX, plus an indented outline for display.
package export

import (
	j "github.com/goccy/go-json"

	jsontool "github.com/useManner/json-tool"
	eng "github.com/useManner/json-tool/internal/engine"
	"github.com/useManner/json-tool/source/gojson"
)

// DefaultIndent is the indent used when Options.Indent is zero.
const DefaultIndent = 4

// Options controls pretty JSON output.
type Options struct {
	Indent   int  // spaces per level; zero means DefaultIndent
	SortKeys bool // lexical key order instead of insertion order
	ASCII    bool // escape non-ASCII characters
}

// JSON renders v as indented JSON text.
func JSON(v any, opt Options) ([]byte, error) {
	if opt.Indent <= 0 {
		opt.Indent = DefaultIndent
	}
	b, err := jsontool.EncodeJSON(v, jsontool.EncodeOptions{Indent: opt.Indent, SortKeys: opt.SortKeys, ASCII: opt.ASCII})
	if err != nil {
		return nil, exportError("json", err)
	}
	return b, nil
}

// MinifiedJSON renders v with no insignificant whitespace.
func MinifiedJSON(v any) ([]byte, error) {
	b, err := jsontool.EncodeJSON(v, jsontool.EncodeOptions{})
	if err != nil {
		return nil, exportError("json", err)
	}
	return b, nil
}

// Validate checks that text is strict JSON. Invalid text fails with a
// parse_error. Valid text may still carry warnings, one duplicate_key issue
// per repeated key.
func Validate(text string) (jsontool.Issues, error) {
	data := []byte(text)
	if !gojson.Valid(data) {
		var x any
		msg := "invalid JSON"
		err := j.Unmarshal(data, &x)
		if err != nil {
			msg = err.Error()
		} else {
			err = gojson.ErrSyntax
		}
		return nil, jsontool.NewIssue(jsontool.CodeParseError, msg, err)
	}
	si, err := eng.CollectDuplicateKeys(gojson.NewBytes(data), -1)
	if err != nil {
		return nil, jsontool.NewIssue(jsontool.CodeParseError, err.Error(), err)
	}
	return fromEngineIssues(si), nil
}

func fromEngineIssues(si []eng.SimpleIssue) jsontool.Issues {
	var iss jsontool.Issues
	for _, s := range si {
		iss = jsontool.AppendIssues(iss, jsontool.Issue{Code: s.Code, Path: s.Path, Message: s.Message})
	}
	return iss
}

func exportError(format string, err error) error {
	return jsontool.Issues{{
		Path:    "/",
		Code:    jsontool.CodeExportError,
		Message: format + ": " + err.Error(),
		Cause:   err,
		Params:  map[string]any{"format": format},
	}}
}
