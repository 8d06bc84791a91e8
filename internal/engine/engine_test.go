package engine

import (
	"errors"
	"io"
	"testing"

	jsontool "github.com/useManner/json-tool"
)

type tokens struct {
	toks []Token
	i    int
}

func (s *tokens) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *tokens) Location() int64 { return int64(s.i * 10) }

func obj(kv ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, kv...)
	return append(out, Token{Kind: KindEndObject})
}

func key(k string) Token { return Token{Kind: KindKey, String: k} }
func num(n string) Token { return Token{Kind: KindNumber, Number: n} }
func str(s string) Token { return Token{Kind: KindString, String: s} }
func begin(k Kind) Token { return Token{Kind: k} }

func TestDecodeValue_OrderAndNumbers(t *testing.T) {
	src := &tokens{toks: obj(key("z"), num("1"), key("a"), num("1.5"), key("s"), str("x"))}
	v, err := DecodeValue(src)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	m := v.(*jsontool.Map)
	if got := m.Keys(); len(got) != 3 || got[0] != "z" || got[1] != "a" {
		t.Fatalf("order: %v", got)
	}
	if z, _ := m.Get("z"); z != int64(1) {
		t.Fatalf("z: %#v", z)
	}
	if a, _ := m.Get("a"); a != 1.5 {
		t.Fatalf("a: %#v", a)
	}
}

func TestDecodeValue_TrailingAndTruncated(t *testing.T) {
	_, err := DecodeValue(&tokens{toks: []Token{num("1"), num("2")}})
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("want trailing data error, got %v", err)
	}
	_, err = DecodeValue(&tokens{toks: []Token{begin(KindBeginArray), num("1")}})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("want unexpected EOF, got %v", err)
	}
	_, err = DecodeValue(&tokens{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty: %v", err)
	}
}

func TestDecode_BudgetViolationsBecomeIssues(t *testing.T) {
	deep := []Token{begin(KindBeginArray), begin(KindBeginArray), begin(KindBeginArray), begin(KindEndArray), begin(KindEndArray), begin(KindEndArray)}
	_, err := Decode(&tokens{toks: deep}, jsontool.Budget{MaxDepth: 2})
	iss, ok := jsontool.AsIssues(err)
	if !ok || iss[0].Code != jsontool.CodeTooDeep || iss[0].Path != "/0/0" {
		t.Fatalf("depth: %v", err)
	}

	_, err = Decode(&tokens{toks: obj(key("a"), num("1"), key("a"), num("2"))}, jsontool.Budget{OnDuplicate: jsontool.DuplicateError})
	iss, ok = jsontool.AsIssues(err)
	if !ok || iss[0].Code != jsontool.CodeDuplicateKey || iss[0].Path != "/a" {
		t.Fatalf("dup: %v", err)
	}

	_, err = Decode(&tokens{toks: obj(key("a"), num("1"), key("b"), num("2"))}, jsontool.Budget{MaxBytes: 25})
	iss, ok = jsontool.AsIssues(err)
	if !ok || iss[0].Code != jsontool.CodeTooBig {
		t.Fatalf("bytes: %v", err)
	}
}

func TestCollectDuplicateKeys(t *testing.T) {
	toks := obj(key("a"), num("1"), key("a"), num("2"), key("b"), begin(KindBeginObject), key("c"), num("1"), key("c"), num("2"), begin(KindEndObject))
	iss, err := CollectDuplicateKeys(&tokens{toks: toks}, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 2 || iss[0].Path != "/a" || iss[1].Path != "/b/c" {
		t.Fatalf("issues: %+v", iss)
	}

	capped, err := CollectDuplicateKeys(&tokens{toks: toks}, 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(capped) != 2 || capped[1].Code != "truncated" {
		t.Fatalf("capped: %+v", capped)
	}
}

func TestKindString(t *testing.T) {
	if KindKey.String() != "key" || Kind(99).String() != "invalid" {
		t.Fatalf("kind names")
	}
}
