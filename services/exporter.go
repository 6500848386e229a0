package services

import (
	"strings"

	"cursor-stats/models"
	"cursor-stats/utils"
)

// Exporter renders merged rows for persistence or display.
type Exporter struct {
	logger *utils.Logger
}

// NewExporter creates an Exporter with the given logger.
func NewExporter(logger *utils.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Table projects rows onto the first row's headers minus the excluded
// export columns. Rows sharing the first row's schema are read by position,
// others by column name.
func (e *Exporter) Table(rows []*models.Row) (columns []string, records [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}

	first := rows[0]
	var keep []int
	for i, h := range first.Headers() {
		if models.IsExcludedExportColumn(h) {
			continue
		}
		keep = append(keep, i)
		columns = append(columns, h)
	}

	records = make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, len(keep))
		for j, i := range keep {
			if r.Schema == first.Schema {
				rec[j] = r.ValueAt(i)
			} else {
				rec[j] = r.Value(columns[j])
			}
		}
		records = append(records, rec)
	}
	return columns, records
}

// ToCSVText renders rows as unquoted CSV: a header line, then one line per
// row, each terminated by "\n". No rows yields "".
//
// Values are not escaped, so a value holding a comma shifts the columns of
// its line.
func (e *Exporter) ToCSVText(rows []*models.Row) string {
	columns, records := e.Table(rows)
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteByte('\n')
	for _, rec := range records {
		b.WriteString(strings.Join(rec, ","))
		b.WriteByte('\n')
	}

	e.logger.Debug("[exporter] Rendered %d rows × %d columns", len(records), len(columns))
	return b.String()
}

// ToPreviewRows returns the merged rows unchanged for display.
func (e *Exporter) ToPreviewRows(rows []*models.Row) []*models.Row {
	return rows
}
