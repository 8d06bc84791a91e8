package detect

import (
	"errors"
	"strings"

	jsontool "github.com/useManner/json-tool"
	"github.com/useManner/json-tool/source/csv"
	"github.com/useManner/json-tool/source/excel"
	"github.com/useManner/json-tool/source/gojson"
	"github.com/useManner/json-tool/source/jsobj"
	"github.com/useManner/json-tool/source/query"
	"github.com/useManner/json-tool/source/xml"
	"github.com/useManner/json-tool/source/yaml"
)

var errNoChunks = errors.New("detect: no object chunk decoded")

// DefaultStrategies returns a fresh copy of the default cascade. Excel is
// included for DecodeAs only; its gate never matches text input.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "js-objects", Format: jsontool.FormatJSObjects, Applies: manyClosingBraces, Decode: decodeObjects},
		{Name: "js-object", Format: jsontool.FormatJSObject, Decode: decodeJSObject},
		{Name: "json", Format: jsontool.FormatJSON, Decode: decodeJSON},
		{Name: "py-literal", Format: jsontool.FormatPyLiteral, Decode: decodePython},
		{Name: "yaml", Format: jsontool.FormatYAML, Decode: decodeYAML},
		{Name: "xml", Format: jsontool.FormatXML, Decode: decodeXML},
		{Name: "csv", Format: jsontool.FormatCSV, Applies: looksTabular, Decode: decodeCSV},
		{Name: "query", Format: jsontool.FormatQuery, Applies: hasEquals, Decode: decodeQuery},
		{Name: "excel", Format: jsontool.FormatExcel, Applies: never, Decode: decodeExcel},
	}
}

func manyClosingBraces(s string) bool { return strings.Count(s, "}") > 1 }
func looksTabular(s string) bool      { return strings.Contains(s, ",") && strings.Contains(s, "\n") }
func hasEquals(s string) bool         { return strings.Contains(s, "=") }
func never(string) bool               { return false }

// jsFormat reports FormatJSON for text that is also strict JSON; the value is
// the same either way.
func jsFormat(s string) jsontool.Format {
	if gojson.Valid([]byte(s)) {
		return jsontool.FormatJSON
	}
	return jsontool.FormatJSObject
}

func decodeObjects(s string, b jsontool.Budget) (Result, error) {
	var (
		values []any
		chunks []string
	)
	for _, c := range splitObjects(s) {
		v, err := jsobj.Decode(c, jsobj.JS, b)
		if err != nil {
			continue
		}
		values = append(values, v)
		chunks = append(chunks, c)
	}
	switch len(values) {
	case 0:
		return Result{}, errNoChunks
	case 1:
		return Result{Value: values[0], Format: jsFormat(chunks[0])}, nil
	}
	return Result{Value: values, Format: jsontool.FormatJSObjects}, nil
}

func decodeJSObject(s string, b jsontool.Budget) (Result, error) {
	v, err := jsobj.Decode(s, jsobj.JS, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsFormat(s)}, nil
}

func decodeJSON(s string, b jsontool.Budget) (Result, error) {
	v, err := gojson.DecodeString(s, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsontool.FormatJSON}, nil
}

func decodePython(s string, b jsontool.Budget) (Result, error) {
	v, err := jsobj.Decode(s, jsobj.Python, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsontool.FormatPyLiteral}, nil
}

// decodeYAML accepts almost any text as a plain scalar, so a scalar document
// is reported as a weak match.
func decodeYAML(s string, b jsontool.Budget) (Result, error) {
	v, err := yaml.Decode([]byte(s), b)
	if err != nil {
		return Result{}, err
	}
	res := Result{Value: v, Format: jsontool.FormatYAML}
	if yaml.IsScalar(v) {
		return res, ErrWeakMatch
	}
	return res, nil
}

func decodeXML(s string, b jsontool.Budget) (Result, error) {
	v, err := xml.Decode([]byte(s), b)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsontool.FormatXML}, nil
}

func decodeCSV(s string, b jsontool.Budget) (Result, error) {
	v, err := csv.Decode(s, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsontool.FormatCSV}, nil
}

func decodeQuery(s string, b jsontool.Budget) (Result, error) {
	v, err := query.Decode(s, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsontool.FormatQuery}, nil
}

func decodeExcel(s string, b jsontool.Budget) (Result, error) {
	if b.MaxBytes > 0 && int64(len(s)) > b.MaxBytes {
		return Result{}, jsontool.NewIssue(jsontool.CodeTooBig, "max bytes exceeded", nil)
	}
	v, err := excel.Decode(strings.NewReader(s))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v, Format: jsontool.FormatExcel}, nil
}
