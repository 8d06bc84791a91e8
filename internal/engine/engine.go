package engine

import (
	"errors"
	"fmt"
	"io"

	jsontool "github.com/useManner/json-tool"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindNames = [...]string{"{", "}", "[", "]", "key", "string", "number", "bool", "null"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine. Implementations
// return io.EOF once the input is exhausted.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData is returned when a source yields tokens after the first
// complete value.
var ErrTrailingData = errors.New("engine: trailing data after value")

// DecodeValue builds a StructuredValue from the token source. Objects become
// *jsontool.Map in source order; numbers become int64 or float64. The source
// must contain exactly one value.
func DecodeValue(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	if extra, err := src.NextToken(); err == nil {
		return nil, fmt.Errorf("%w: %s at offset %d", ErrTrailingData, extra.Kind, extra.Offset)
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return v, nil
}

func decodeValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return jsontool.ParseNumber(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("engine: unexpected %s at offset %d", tok.Kind, tok.Offset)
	}
}

func decodeObject(src TokenSource) (any, error) {
	m := jsontool.NewMap(4)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, fmt.Errorf("engine: expected key, got %s at offset %d", tok.Kind, tok.Offset)
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		m.Set(tok.String, v)
	}
}

func decodeArray(src TokenSource) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func eofAsUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Decode wraps src with budget enforcement and decodes a single value.
// Budget violations are reported as jsontool.Issues.
func Decode(src TokenSource, b jsontool.Budget) (any, error) {
	v, err := DecodeValue(WrapWithEnforcement(src, OptionsFromBudget(b)))
	var ie IssueError
	if errors.As(err, &ie) {
		return nil, ie.Issues()
	}
	return v, err
}

// OptionsFromBudget projects the public budget onto enforcement options.
func OptionsFromBudget(b jsontool.Budget) EnforceOptions {
	dup := DupIgnore
	if b.OnDuplicate == jsontool.DuplicateError {
		dup = DupError
	}
	return EnforceOptions{OnDuplicate: dup, MaxDepth: b.DepthLimit(), MaxBytes: b.MaxBytes, FailFast: true}
}
