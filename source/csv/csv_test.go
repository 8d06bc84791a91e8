package csv

import (
	"errors"
	"testing"

	jsontool "github.com/useManner/json-tool"
)

func TestDecode_HeaderRows(t *testing.T) {
	v, err := Decode("name,age,city\nAlice,30,NYC\n\nBob,25\nCarol,41,LA,extra\n", jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rows := v.([]any)
	if len(rows) != 3 {
		t.Fatalf("rows: %d", len(rows))
	}
	want := []any{
		jsontool.MapOf("name", "Alice", "age", "30", "city", "NYC"),
		jsontool.MapOf("name", "Bob", "age", "25", "city", nil),
		jsontool.MapOf("name", "Carol", "age", "41", "city", "LA"),
	}
	if !jsontool.Equal(rows, want) {
		t.Fatalf("got %#v", rows)
	}
	if k := rows[0].(*jsontool.Map).Keys(); k[0] != "name" || k[2] != "city" {
		t.Fatalf("order: %v", k)
	}
}

func TestDecode_QuotedAndTSV(t *testing.T) {
	v, err := Decode("a\tb\n\"x\ty\"\t2\n", jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	row := v.([]any)[0].(*jsontool.Map)
	if a, _ := row.Get("a"); a != "x\ty" {
		t.Fatalf("quoted: %q", a)
	}
}

func TestSniff(t *testing.T) {
	cases := map[string]rune{
		"a,b,c\n1,2,3": ',',
		"a\tb\tc":       '\t',
		"a;b;c\n1,2":    ';',
		`"x,y";z`:       ';',
		"single":        ',',
	}
	for in, want := range cases {
		if got := Sniff(in); got != want {
			t.Fatalf("Sniff(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecode_HeaderOnlyAndEmpty(t *testing.T) {
	v, err := Decode("a,b\n", jsontool.Budget{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rows := v.([]any); len(rows) != 0 {
		t.Fatalf("rows: %v", rows)
	}
	if _, err := Decode("", jsontool.Budget{}); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("empty: %v", err)
	}
}
