// Package jsobj decodes permissive object literals: JavaScript-style objects
// (unquoted keys, single quotes, trailing commas, comments) and Python-style
// literals (tuples, sets, True/False/None). Both dialects feed the same token
// engine as strict JSON, so budgets and key-order preservation apply equally.
package jsobj

import (
	"fmt"
	"io"
	"strings"

	jsontool "github.com/useManner/json-tool"
	eng "github.com/useManner/json-tool/internal/engine"
)

// Dialect selects the literal grammar.
type Dialect int

const (
	JS Dialect = iota
	Python
)

func (d Dialect) String() string {
	if d == Python {
		return "python"
	}
	return "js"
}

// Decode parses s as a single literal of the given dialect.
func Decode(s string, d Dialect, b jsontool.Budget) (any, error) {
	src, err := Tokens(s, d, b)
	if err != nil {
		return nil, err
	}
	return eng.Decode(src, b)
}

// Tokens lexes and parses s eagerly and returns the resulting token stream.
// Syntax errors and nesting beyond b.DepthLimit() are reported here rather
// than while draining the source.
func Tokens(s string, d Dialect, b jsontool.Budget) (eng.TokenSource, error) {
	p := &parser{scanner: scanner{src: s, dialect: d}, limit: b.DepthLimit()}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errf("empty input")
	}
	if err := p.value(); err != nil {
		return nil, err
	}
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errf("unexpected %q after value", p.peek())
	}
	return &sliceSource{toks: p.toks}, nil
}

type parser struct {
	scanner
	toks  []eng.Token
	depth int
	limit int
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.limit {
		return jsontool.Issues{{
			Path:    "/",
			Code:    jsontool.CodeTooDeep,
			Message: fmt.Sprintf("max depth %d exceeded at offset %d", p.limit, p.pos),
		}}
	}
	return nil
}

func (p *parser) emit(t eng.Token) int {
	p.toks = append(p.toks, t)
	return len(p.toks) - 1
}

func (p *parser) value() error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	off := int64(p.pos)
	c := p.peek()
	switch {
	case c == '{' || c == '[' || (c == '(' && p.dialect == Python):
		return p.nested(c)
	case c == '"' || c == '\'':
		str, err := p.stringLit()
		if err != nil {
			return err
		}
		p.emit(eng.Token{Kind: eng.KindString, String: str, Offset: off})
		return nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		num, err := p.number()
		if err != nil {
			return err
		}
		p.emit(eng.Token{Kind: eng.KindNumber, Number: num, Offset: off})
		return nil
	case isIdentStart(c):
		return p.keyword(off)
	}
	if p.eof() {
		return p.errf("unexpected end of input")
	}
	return p.errf("unexpected %q", c)
}

func (p *parser) nested(open byte) error {
	if err := p.enter(); err != nil {
		return err
	}
	defer func() { p.depth-- }()
	switch {
	case open == '[':
		return p.sequence('[', ']')
	case open == '(':
		return p.tuple()
	case p.dialect == Python:
		return p.pyBrace()
	}
	return p.object()
}

// keyword handles bare words allowed in value position, including Python
// string prefixes such as r'..' and u'..'.
func (p *parser) keyword(off int64) error {
	start := p.pos
	word := p.ident()
	if p.dialect == Python && len(word) <= 2 && (p.peek() == '\'' || p.peek() == '"') && isStringPrefix(word) {
		raw := strings.ContainsAny(word, "rR")
		var str string
		var err error
		if raw {
			str, err = p.rawString()
		} else {
			str, err = p.stringLit()
		}
		if err != nil {
			return err
		}
		p.emit(eng.Token{Kind: eng.KindString, String: str, Offset: off})
		return nil
	}
	tok, ok := p.literalWord(word)
	if !ok {
		p.pos = start
		return p.errf("unexpected identifier %q", word)
	}
	tok.Offset = off
	p.emit(tok)
	return nil
}

func (p *parser) literalWord(word string) (eng.Token, bool) {
	if p.dialect == Python {
		switch word {
		case "True":
			return eng.Token{Kind: eng.KindBool, Bool: true}, true
		case "False":
			return eng.Token{Kind: eng.KindBool}, true
		case "None":
			return eng.Token{Kind: eng.KindNull}, true
		}
		return eng.Token{}, false
	}
	switch word {
	case "true":
		return eng.Token{Kind: eng.KindBool, Bool: true}, true
	case "false":
		return eng.Token{Kind: eng.KindBool}, true
	case "null", "undefined":
		return eng.Token{Kind: eng.KindNull}, true
	case "NaN":
		return eng.Token{Kind: eng.KindNumber, Number: "NaN"}, true
	case "Infinity":
		return eng.Token{Kind: eng.KindNumber, Number: "Inf"}, true
	}
	return eng.Token{}, false
}

func isStringPrefix(w string) bool {
	switch strings.ToLower(w) {
	case "r", "u", "b", "br", "rb":
		return true
	}
	return false
}

func (p *parser) rawString() (string, error) {
	quote := p.src[p.pos]
	triple := strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(quote), 3))
	delim := string(quote)
	if triple {
		delim = strings.Repeat(delim, 3)
	}
	p.pos += len(delim)
	start := p.pos
	for !p.eof() {
		switch {
		case p.src[p.pos] == '\\' && p.pos+1 < len(p.src):
			p.pos += 2
		case strings.HasPrefix(p.src[p.pos:], delim):
			str := p.src[start:p.pos]
			p.pos += len(delim)
			return str, nil
		case !triple && p.src[p.pos] == '\n':
			return "", p.errf("newline in string")
		default:
			p.pos++
		}
	}
	return "", p.errf("unterminated string")
}

func (p *parser) object() error {
	p.pos++
	p.emit(eng.Token{Kind: eng.KindBeginObject, Offset: int64(p.pos - 1)})
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.peek() == '}' {
			p.pos++
			p.emit(eng.Token{Kind: eng.KindEndObject, Offset: int64(p.pos - 1)})
			return nil
		}
		if err := p.jsKey(); err != nil {
			return err
		}
		if err := p.expect(':'); err != nil {
			return err
		}
		if err := p.value(); err != nil {
			return err
		}
		if err := p.separator('}'); err != nil {
			return err
		}
	}
}

// jsKey reads an object key: identifier, quoted string, or number.
func (p *parser) jsKey() error {
	off := int64(p.pos)
	c := p.peek()
	var key string
	switch {
	case c == '"' || c == '\'':
		s, err := p.stringLit()
		if err != nil {
			return err
		}
		key = s
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		n, err := p.number()
		if err != nil {
			return err
		}
		key = canonicalNumberKey(n)
	case isIdentStart(c):
		key = p.ident()
	default:
		if p.eof() {
			return p.errf("unexpected end of input")
		}
		return p.errf("unexpected %q where key expected", c)
	}
	p.emit(eng.Token{Kind: eng.KindKey, String: key, Offset: off})
	return nil
}

// separator consumes a comma (trailing commas allowed) or peeks at the
// closing delimiter.
func (p *parser) separator(closing byte) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	switch p.peek() {
	case ',':
		p.pos++
		return nil
	case closing:
		return nil
	}
	if p.eof() {
		return p.errf("unexpected end of input")
	}
	return p.errf("expected ',' or %q", closing)
}

func (p *parser) sequence(open, closing byte) error {
	p.pos++
	p.emit(eng.Token{Kind: eng.KindBeginArray, Offset: int64(p.pos - 1)})
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.peek() == closing {
			p.pos++
			p.emit(eng.Token{Kind: eng.KindEndArray, Offset: int64(p.pos - 1)})
			return nil
		}
		if err := p.value(); err != nil {
			return err
		}
		if err := p.separator(closing); err != nil {
			return err
		}
	}
}

// tuple handles "()", "(x,)", "(x, y)" and a parenthesised plain value "(x)".
func (p *parser) tuple() error {
	openPos := p.pos
	p.pos++
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() == ')' {
		p.pos++
		p.emit(eng.Token{Kind: eng.KindBeginArray, Offset: int64(openPos)})
		p.emit(eng.Token{Kind: eng.KindEndArray, Offset: int64(p.pos - 1)})
		return nil
	}
	begin := p.emit(eng.Token{Kind: eng.KindBeginArray, Offset: int64(openPos)})
	if err := p.value(); err != nil {
		return err
	}
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() == ')' {
		// Parenthesised expression, not a tuple: drop the array marker.
		p.pos++
		p.toks = append(p.toks[:begin], p.toks[begin+1:]...)
		return nil
	}
	if err := p.separator(')'); err != nil {
		return err
	}
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.peek() == ')' {
			p.pos++
			p.emit(eng.Token{Kind: eng.KindEndArray, Offset: int64(p.pos - 1)})
			return nil
		}
		if err := p.value(); err != nil {
			return err
		}
		if err := p.separator(')'); err != nil {
			return err
		}
	}
}

// pyBrace parses a dict or a set. The kind is decided by the first entry:
// a colon after it makes a dict. "{}" is an empty dict.
func (p *parser) pyBrace() error {
	openPos := p.pos
	p.pos++
	begin := p.emit(eng.Token{Kind: eng.KindBeginObject, Offset: int64(openPos)})
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() == '}' {
		p.pos++
		p.emit(eng.Token{Kind: eng.KindEndObject, Offset: int64(p.pos - 1)})
		return nil
	}
	first := len(p.toks)
	if err := p.value(); err != nil {
		return err
	}
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() != ':' {
		p.toks[begin].Kind = eng.KindBeginArray
		if err := p.separator('}'); err != nil {
			return err
		}
		return p.setRest()
	}
	if err := p.keyFromValue(first); err != nil {
		return err
	}
	for {
		if err := p.expect(':'); err != nil {
			return err
		}
		if err := p.value(); err != nil {
			return err
		}
		if err := p.separator('}'); err != nil {
			return err
		}
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.peek() == '}' {
			p.pos++
			p.emit(eng.Token{Kind: eng.KindEndObject, Offset: int64(p.pos - 1)})
			return nil
		}
		at := len(p.toks)
		if err := p.value(); err != nil {
			return err
		}
		if err := p.keyFromValue(at); err != nil {
			return err
		}
	}
}

func (p *parser) setRest() error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.peek() == '}' {
			p.pos++
			p.emit(eng.Token{Kind: eng.KindEndArray, Offset: int64(p.pos - 1)})
			return nil
		}
		if err := p.value(); err != nil {
			return err
		}
		if err := p.separator('}'); err != nil {
			return err
		}
	}
}

// keyFromValue rewrites the scalar token at index i into a key token, using
// the same text a JSON encoder would produce for a non-string dict key.
func (p *parser) keyFromValue(i int) error {
	if len(p.toks) != i+1 {
		return &SyntaxError{Offset: int(p.toks[i].Offset), Msg: "unhashable dict key"}
	}
	t := &p.toks[i]
	switch t.Kind {
	case eng.KindString:
	case eng.KindNumber:
		t.String = canonicalNumberKey(t.Number)
	case eng.KindBool:
		t.String = "false"
		if t.Bool {
			t.String = "true"
		}
	case eng.KindNull:
		t.String = "null"
	default:
		return &SyntaxError{Offset: int(t.Offset), Msg: "unhashable dict key"}
	}
	t.Kind = eng.KindKey
	return nil
}

func canonicalNumberKey(n string) string {
	v, err := jsontool.ParseNumber(n)
	if err != nil {
		return n
	}
	return jsontool.FormatScalar(v)
}

type sliceSource struct {
	toks []eng.Token
	i    int
}

func (s *sliceSource) NextToken() (eng.Token, error) {
	if s.i >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 {
	if s.i == 0 {
		return 0
	}
	return s.toks[s.i-1].Offset
}
