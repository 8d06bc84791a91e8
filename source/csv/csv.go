// Package csv reads delimited text with a header row into a sequence of
// mappings. Every cell stays a string; short rows are padded with null and
// cells beyond the header are dropped.
package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	jsontool "github.com/useManner/json-tool"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Options tune the reader. A zero Comma is sniffed from the header line.
type Options struct {
	Comma rune
}

// Decode parses s using the sniffed delimiter.
func Decode(s string, b jsontool.Budget) (any, error) {
	return DecodeWith(s, Options{}, b)
}

// DecodeWith parses s as delimited records keyed by the header row.
func DecodeWith(s string, opt Options, b jsontool.Budget) (any, error) {
	if b.MaxBytes > 0 && int64(len(s)) > b.MaxBytes {
		return nil, jsontool.NewIssue(jsontool.CodeTooBig, "max bytes exceeded", nil)
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	comma := opt.Comma
	if comma == 0 {
		comma = Sniff(s)
	}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	rows := []any{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := jsontool.NewMap(len(header))
		for i, h := range header {
			if i < len(rec) {
				row.Set(h, rec[i])
			} else {
				row.Set(h, nil)
			}
		}
		rows = append(rows, row)
	}
}

// Sniff picks the delimiter that occurs most often in the first line,
// preferring comma on ties. Quoted sections are ignored.
func Sniff(s string) rune {
	line := s
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		line = s[:i]
	}
	counts := map[rune]int{}
	inQuote := false
	for _, c := range line {
		switch {
		case c == '"':
			inQuote = !inQuote
		case !inQuote && (c == ',' || c == '\t' || c == ';' || c == '|'):
			counts[c]++
		}
	}
	best, n := ',', counts[',']
	for _, c := range []rune{'\t', ';', '|'} {
		if counts[c] > n {
			best, n = c, counts[c]
		}
	}
	return best
}
