// Package query decodes URL-encoded query strings ("a=1&b=two+words") into an
// ordered mapping of strings.
package query

import (
	"errors"
	"strings"
	"unicode/utf8"

	jsontool "github.com/useManner/json-tool"
)

// ErrEmpty is returned when no name=value pair with a non-empty value exists.
var ErrEmpty = errors.New("query: no name=value pairs")

// Pair is one decoded name/value.
type Pair struct {
	Name  string
	Value string
}

// ParsePairs splits s on '&' and decodes every name=value field in order.
// Fields without '=' and fields with an empty value are dropped. A leading
// '?' is ignored.
func ParsePairs(s string) []Pair {
	s = strings.TrimPrefix(strings.TrimSpace(s), "?")
	var out []Pair
	for _, field := range strings.Split(s, "&") {
		name, value, ok := strings.Cut(field, "=")
		if !ok || value == "" {
			continue
		}
		out = append(out, Pair{Name: Unescape(name), Value: Unescape(value)})
	}
	return out
}

// Decode returns the pairs of s as a mapping. A repeated name keeps its first
// position and takes the last value.
func Decode(s string, b jsontool.Budget) (any, error) {
	if b.MaxBytes > 0 && int64(len(s)) > b.MaxBytes {
		return nil, jsontool.NewIssue(jsontool.CodeTooBig, "max bytes exceeded", nil)
	}
	pairs := ParsePairs(s)
	if len(pairs) == 0 {
		return nil, ErrEmpty
	}
	m := jsontool.NewMap(len(pairs))
	for _, p := range pairs {
		m.Set(p.Name, p.Value)
	}
	return m, nil
}

// Unescape decodes '+' as space and %XX escapes. Malformed escapes are kept
// as-is and invalid UTF-8 is replaced with U+FFFD.
func Unescape(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	if !utf8.Valid(buf) {
		return strings.ToValidUTF8(string(buf), "\uFFFD")
	}
	return string(buf)
}

func ishex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}
