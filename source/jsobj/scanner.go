package jsobj

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports the byte offset at which a literal could not be read.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsobj: %s at offset %d", e.Msg, e.Offset)
}

type scanner struct {
	src     string
	pos     int
	dialect Dialect
}

func (s *scanner) errf(format string, a ...any) error {
	return &SyntaxError{Offset: s.pos, Msg: fmt.Sprintf(format, a...)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

// skipSpace skips whitespace and dialect comments.
func (s *scanner) skipSpace() error {
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			s.pos++
		case c == 0xEF && strings.HasPrefix(s.src[s.pos:], "\uFEFF"):
			s.pos += 3
		case s.dialect == JS && c == '/' && strings.HasPrefix(s.src[s.pos:], "//"):
			if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
				s.pos += i + 1
			} else {
				s.pos = len(s.src)
			}
		case s.dialect == JS && c == '/' && strings.HasPrefix(s.src[s.pos:], "/*"):
			i := strings.Index(s.src[s.pos+2:], "*/")
			if i < 0 {
				return s.errf("unterminated comment")
			}
			s.pos += i + 4
		case s.dialect == Python && c == '#':
			if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
				s.pos += i + 1
			} else {
				s.pos = len(s.src)
			}
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			if !unicode.IsSpace(r) {
				return nil
			}
			s.pos += size
		default:
			return nil
		}
	}
	return nil
}

func (s *scanner) expect(c byte) error {
	if err := s.skipSpace(); err != nil {
		return err
	}
	if s.peek() != c {
		return s.errf("expected %q", c)
	}
	s.pos++
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ident reads a bare identifier (used for unquoted keys and keywords).
func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() && isIdentPart(s.src[s.pos]) {
		if s.src[s.pos] >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			s.pos += size
			continue
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// stringLit reads a quoted string starting at the current quote character.
// Python triple-quoted strings and JS line continuations are accepted.
func (s *scanner) stringLit() (string, error) {
	quote := s.src[s.pos]
	triple := s.dialect == Python && strings.HasPrefix(s.src[s.pos:], strings.Repeat(string(quote), 3))
	if triple {
		s.pos += 3
	} else {
		s.pos++
	}
	var b strings.Builder
	for {
		if s.eof() {
			return "", s.errf("unterminated string")
		}
		c := s.src[s.pos]
		switch {
		case triple && c == quote && strings.HasPrefix(s.src[s.pos:], strings.Repeat(string(quote), 3)):
			s.pos += 3
			return b.String(), nil
		case !triple && c == quote:
			s.pos++
			return b.String(), nil
		case !triple && (c == '\n' || c == '\r'):
			return "", s.errf("newline in string")
		case c == '\\':
			if err := s.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
}

func (s *scanner) escape(b *strings.Builder) error {
	s.pos++ // backslash
	if s.eof() {
		return s.errf("unterminated escape")
	}
	c := s.src[s.pos]
	s.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case '\r':
		if s.peek() == '\n' {
			s.pos++
		}
	case 'x':
		return s.hexEscape(b, 2)
	case 'u':
		if s.dialect == JS && s.peek() == '{' {
			end := strings.IndexByte(s.src[s.pos:], '}')
			if end < 0 {
				return s.errf("bad unicode escape")
			}
			n, err := strconv.ParseUint(s.src[s.pos+1:s.pos+end], 16, 32)
			if err != nil {
				return s.errf("bad unicode escape")
			}
			b.WriteRune(rune(n))
			s.pos += end + 1
			return nil
		}
		return s.hexEscape(b, 4)
	case 'U':
		if s.dialect == Python {
			return s.hexEscape(b, 8)
		}
		b.WriteByte(c)
	default:
		b.WriteByte(c)
	}
	return nil
}

func (s *scanner) hexEscape(b *strings.Builder, digits int) error {
	if s.pos+digits > len(s.src) {
		return s.errf("short hex escape")
	}
	n, err := strconv.ParseUint(s.src[s.pos:s.pos+digits], 16, 32)
	if err != nil {
		return s.errf("bad hex escape")
	}
	s.pos += digits
	r := rune(n)
	// Join UTF-16 surrogate pairs written as two \u escapes.
	if digits == 4 && r >= 0xD800 && r < 0xDC00 && strings.HasPrefix(s.src[s.pos:], `\u`) && s.pos+6 <= len(s.src) {
		if lo, err := strconv.ParseUint(s.src[s.pos+2:s.pos+6], 16, 32); err == nil && lo >= 0xDC00 && lo < 0xE000 {
			r = (r-0xD800)<<10 + (rune(lo) - 0xDC00) + 0x10000
			s.pos += 6
		}
	}
	b.WriteRune(r)
	return nil
}

// number reads a numeric literal and returns its canonical decimal text.
func (s *scanner) number() (string, error) {
	start := s.pos
	sign := ""
	if c := s.peek(); c == '+' || c == '-' {
		if c == '-' {
			sign = "-"
		}
		s.pos++
	}
	if s.dialect == JS && strings.HasPrefix(s.src[s.pos:], "Infinity") {
		s.pos += len("Infinity")
		return sign + "Inf", nil
	}
	if s.dialect == JS && strings.HasPrefix(s.src[s.pos:], "NaN") {
		s.pos += len("NaN")
		return "NaN", nil
	}
	if s.peek() == '0' && s.pos+1 < len(s.src) {
		base := 0
		switch s.src[s.pos+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			s.pos += 2
			digits := s.scanWhile(func(c byte) bool { return isHex(c) || c == '_' })
			n, err := strconv.ParseInt(strings.ReplaceAll(digits, "_", ""), base, 64)
			if err != nil {
				s.pos = start
				return "", s.errf("bad integer literal")
			}
			return sign + strconv.FormatInt(n, 10), nil
		}
	}
	digitOK := func(c byte) bool { return (c >= '0' && c <= '9') || (c == '_' && s.dialect == Python) }
	intPart := s.scanWhile(digitOK)
	frac := ""
	if s.peek() == '.' {
		s.pos++
		frac = s.scanWhile(digitOK)
		if intPart == "" && frac == "" {
			s.pos = start
			return "", s.errf("bad number")
		}
	} else if intPart == "" {
		s.pos = start
		return "", s.errf("bad number")
	}
	exp := ""
	if c := s.peek(); c == 'e' || c == 'E' {
		mark := s.pos
		s.pos++
		esign := ""
		if c := s.peek(); c == '+' || c == '-' {
			esign = string(c)
			s.pos++
		}
		digits := s.scanWhile(func(c byte) bool { return c >= '0' && c <= '9' })
		if digits == "" {
			s.pos = mark
		} else {
			exp = "e" + esign + digits
		}
	}
	text := strings.ReplaceAll(intPart, "_", "")
	if text == "" {
		text = "0"
	}
	if frac != "" || strings.Contains(s.src[start:s.pos], ".") {
		text += "." + strings.ReplaceAll(frac, "_", "")
		if strings.HasSuffix(text, ".") {
			text += "0"
		}
	}
	text = sign + text + exp
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		if f, ok := overflowValue(text); ok {
			return f, nil
		}
		return "", s.errf("bad number %q", text)
	}
	return text, nil
}

func overflowValue(text string) (string, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err == nil {
		return text, true
	}
	if math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	return "", false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (s *scanner) scanWhile(ok func(byte) bool) string {
	start := s.pos
	for !s.eof() && ok(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}
