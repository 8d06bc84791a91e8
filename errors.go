package jsontool

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnrecognizedFormat = "unrecognized_format"
	CodeSchemaError        = "schema_error"
	CodeTransformParam     = "transform_param"
	CodeParseError         = "parse_error"
	CodeTooBig             = "too_big"
	CodeTooDeep            = "too_deep"
	CodeDuplicateKey       = "duplicate_key"
	CodeQueryError         = "query_error"
	CodeExportError        = "export_error"
	CodeTruncated          = "truncated"
)

// Sentinel errors matched by Issues through errors.Is.
var (
	ErrUnrecognizedFormat = errors.New("jsontool: unrecognized input format")
	ErrSchema             = errors.New("jsontool: malformed schema")
	ErrTransformParam     = errors.New("jsontool: invalid transform parameters")
)

// Issue represents a single failure entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"format":"xml"}) for i18n.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. parse_error at /a: unexpected token
		fmt.Fprintf(b, "%s at %s", it.Code, pathOrRoot(it.Path))
		if it.Message != "" {
			b.WriteString(": ")
			b.WriteString(it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue carries the code mapped to target.
func (iss Issues) Is(target error) bool {
	code := ""
	switch target {
	case ErrUnrecognizedFormat:
		code = CodeUnrecognizedFormat
	case ErrSchema:
		code = CodeSchemaError
	case ErrTransformParam:
		code = CodeTransformParam
	default:
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Unwrap exposes the causes of all issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// NewIssue builds a single-entry Issues error at the root path.
func NewIssue(code, msg string, cause error) Issues {
	return Issues{{Path: "/", Code: code, Message: msg, Cause: cause}}
}

// SchemaError reports a schema that cannot be used for generation.
func SchemaError(msg string, cause error) error {
	return NewIssue(CodeSchemaError, msg, cause)
}

// TransformParamError reports a transform step whose parameters are ill-shaped.
func TransformParamError(kind, msg string) error {
	return Issues{{Path: "/", Code: CodeTransformParam, Message: kind + ": " + msg, Params: map[string]any{"kind": kind}}}
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
