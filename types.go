package jsontool

import "strings"

// Format identifies the grammar a document was decoded with.
type Format int

const (
	FormatUnknown   Format = iota
	FormatJSObjects        // Several brace-delimited JS objects pasted together.
	FormatJSObject         // Permissive JavaScript object literal.
	FormatJSON             // Strict JSON.
	FormatPyLiteral        // Python-like literal (tuples, sets, True/None).
	FormatYAML
	FormatXML
	FormatCSV
	FormatQuery // URL-encoded query string.
	FormatExcel
)

var formatNames = [...]string{
	FormatUnknown:   "unknown",
	FormatJSObjects: "js-objects",
	FormatJSObject:  "js-object",
	FormatJSON:      "json",
	FormatPyLiteral: "py-literal",
	FormatYAML:      "yaml",
	FormatXML:       "xml",
	FormatCSV:       "csv",
	FormatQuery:     "query",
	FormatExcel:     "excel",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat maps a user-facing name ("yml", "tsv", "url", ...) to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, true
	case "js", "js-object", "javascript", "json5":
		return FormatJSObject, true
	case "js-objects":
		return FormatJSObjects, true
	case "py", "python", "py-literal":
		return FormatPyLiteral, true
	case "yaml", "yml":
		return FormatYAML, true
	case "xml":
		return FormatXML, true
	case "csv", "tsv":
		return FormatCSV, true
	case "query", "url", "urlencoded":
		return FormatQuery, true
	case "excel", "xlsx":
		return FormatExcel, true
	}
	return FormatUnknown, false
}

// DuplicatePolicy controls how repeated object keys are handled while decoding.
type DuplicatePolicy int

const (
	DuplicateLastWins DuplicatePolicy = iota // Later value replaces the earlier one.
	DuplicateError                           // Reject the document.
)

// Budget bounds the work a single decode may perform. Zero values disable a
// limit, except that nesting never exceeds HardMaxDepth.
type Budget struct {
	MaxBytes    int64
	MaxDepth    int
	OnDuplicate DuplicatePolicy
}

// HardMaxDepth bounds nesting when MaxDepth is zero or above the cap. Decoders
// recurse per level, so the cap keeps them inside the goroutine stack.
const HardMaxDepth = 10000

// DepthLimit returns the nesting limit decoders enforce.
func (b Budget) DepthLimit() int {
	if b.MaxDepth > 0 && b.MaxDepth < HardMaxDepth {
		return b.MaxDepth
	}
	return HardMaxDepth
}
