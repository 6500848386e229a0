package services

import (
	"strings"
	"testing"

	"cursor-stats/models"
)

func TestExporterCSVText(t *testing.T) {
	merged := NewAggregator(newTestLogger()).Aggregate(parse(t, sampleCSV), "swift", models.NoDomain)
	text := NewExporter(newTestLogger()).ToCSVText(merged)

	want := "User ID,Email,Chat Suggested Lines Added,Edit Requests,Ask Requests,Agent Requests,Most Used Model\n" +
		"u1,a@gotinder.com,15,5,1,4,gpt-4.1\n" +
		"u3,c@gmail.com,0,9,0,0,o3\n"
	if text != want {
		t.Errorf("csv text:\ngot:\n%s\nwant:\n%s", text, want)
	}
}

func TestExporterNeverEmitsExcludedColumns(t *testing.T) {
	merged := NewAggregator(newTestLogger()).Aggregate(parse(t, sampleCSV), "kotlin", models.NoDomain)
	text := NewExporter(newTestLogger()).ToCSVText(merged)

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}

	header := strings.Split(lines[0], ",")
	for _, col := range models.ExcludedExportColumns {
		for _, h := range header {
			if h == col {
				t.Errorf("excluded column %q in header", col)
			}
		}
	}
	for _, leaked := range []string{"Merged", "kt", "kotlin", "false"} {
		for _, field := range strings.Split(lines[1], ",") {
			if field == leaked {
				t.Errorf("value %q from an excluded column leaked into %q", leaked, lines[1])
			}
		}
	}
	if len(strings.Split(lines[1], ",")) != len(header) {
		t.Errorf("data line has %d fields for %d headers", len(strings.Split(lines[1], ",")), len(header))
	}
}

func TestExporterEmptyInput(t *testing.T) {
	e := NewExporter(newTestLogger())
	if got := e.ToCSVText(nil); got != "" {
		t.Errorf("ToCSVText(nil) = %q; want empty", got)
	}
	if cols, recs := e.Table(nil); cols != nil || recs != nil {
		t.Error("Table(nil) should return nothing")
	}
}

func TestExporterDoesNotQuote(t *testing.T) {
	text := "Email,Most Used Apply Extension,Team\n" +
		"a@hinge.co,swift,\"core, infra\"\n"
	merged := NewAggregator(newTestLogger()).Aggregate(parse(t, text), "swift", models.NoDomain)

	got := NewExporter(newTestLogger()).ToCSVText(merged)
	want := "Email,Team\na@hinge.co,core, infra\n"
	if got != want {
		t.Errorf("csv text: got %q, want %q", got, want)
	}
}

func TestExporterReadsForeignSchemaByName(t *testing.T) {
	first := models.NewSchema([]string{"Email", "Date", "Edit Requests"})
	other := models.NewSchema([]string{"Edit Requests", "Email"})
	rows := []*models.Row{
		models.NewRow(first, []string{"a@hinge.co", "Merged", "1"}),
		models.NewRow(other, []string{"7", "b@hinge.co"}),
	}

	got := NewExporter(newTestLogger()).ToCSVText(rows)
	want := "Email,Edit Requests\na@hinge.co,1\nb@hinge.co,7\n"
	if got != want {
		t.Errorf("csv text: got %q, want %q", got, want)
	}
}

func TestExporterPreviewIsPassthrough(t *testing.T) {
	merged := NewAggregator(newTestLogger()).Aggregate(parse(t, sampleCSV), "swift", models.NoDomain)
	preview := NewExporter(newTestLogger()).ToPreviewRows(merged)

	if len(preview) != len(merged) {
		t.Fatalf("preview rows: got %d, want %d", len(preview), len(merged))
	}
	for i := range merged {
		if preview[i] != merged[i] {
			t.Errorf("row %d is not the aggregated row", i)
		}
	}
}
