package services

import (
	"reflect"
	"testing"
)

func TestParserQuotedComma(t *testing.T) {
	rows := parse(t, "X,Y,Z\na,\"b,c\",d\n")
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	want := []string{"a", "b,c", "d"}
	if !reflect.DeepEqual(rows[0].Values, want) {
		t.Errorf("values: got %q, want %q", rows[0].Values, want)
	}
}

func TestParserNeedsHeaderAndData(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"header only", "A,B"},
		{"header and blank line", "A,B\n"},
		{"header and whitespace", "A,B\n   \n\t\n"},
	}

	for _, tt := range tests {
		if rows := parse(t, tt.text); len(rows) != 0 {
			t.Errorf("%s: got %d rows, want 0", tt.name, len(rows))
		}
	}
}

func TestParserRowLengthRules(t *testing.T) {
	rows := parse(t, "A,B\n1\n1,2\n1,2,3\n")
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2 (short line dropped)", len(rows))
	}
	if len(rows[0].Values) != 2 {
		t.Errorf("row 0 values: got %d, want 2", len(rows[0].Values))
	}
	if len(rows[1].Values) != 3 {
		t.Errorf("row 1 values: got %d, want 3 (extra value kept)", len(rows[1].Values))
	}
	if rows[1].Value("B") != "2" {
		t.Errorf("B: got %q, want %q", rows[1].Value("B"), "2")
	}
}

func TestParserLineEndingsAndBlankLines(t *testing.T) {
	rows := parse(t, "A,B\r\n1,2\r\n\r\n3,4\r5,6")
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[2].Value("A") != "5" {
		t.Errorf("last row A: got %q, want 5", rows[2].Value("A"))
	}
}

func TestParserHeaderIsNotQuoteAware(t *testing.T) {
	rows := parse(t, "\"A,B\",C\n1,2,3\n")
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	want := []string{`"A`, `B"`, "C"}
	if !reflect.DeepEqual(rows[0].Headers(), want) {
		t.Errorf("headers: got %q, want %q", rows[0].Headers(), want)
	}
}

func TestParserFieldConstruction(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"  1 ,  2  ", []string{"1", "2"}},
		{`a"b"c,d`, []string{"abc", "d"}},
		{`"x, y" , z`, []string{"x, y", "z"}},
		{`"",`, []string{"", ""}},
		{`"open,ended`, []string{"open,ended"}},
	}

	for _, tt := range tests {
		if got := splitQuoted(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitQuoted(%q) = %q; want %q", tt.line, got, tt.want)
		}
	}
}

func TestParserStripsByteOrderMark(t *testing.T) {
	rows := parse(t, "\ufeffEmail,Date\na@gotinder.com,2025-06-01\n")
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0].Email() != "a@gotinder.com" {
		t.Errorf("email: got %q", rows[0].Email())
	}
}

func TestParserRowsShareSchema(t *testing.T) {
	rows := parse(t, sampleCSV)
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want 5", len(rows))
	}
	for i, r := range rows {
		if r.Schema != rows[0].Schema {
			t.Errorf("row %d has its own schema", i)
		}
		if len(r.Values) < r.Schema.Len() {
			t.Errorf("row %d: %d values for %d headers", i, len(r.Values), r.Schema.Len())
		}
	}
}
