package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cursor-stats/models"
)

const defaultSheet = "Sheet1"

// XLSXWriter collects exports into one workbook: a sheet of merged rows and
// a sheet of company totals per variant. The workbook is saved on Close.
type XLSXWriter struct {
	path   string
	file   *excelize.File
	sheets int
}

// NewXLSXWriter prepares a workbook that Close saves at path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path, file: excelize.NewFile()}
}

// WriteExport adds the "<Label>" and "<Label> Companies" sheets.
func (w *XLSXWriter) WriteExport(f models.ExportFile) error {
	label := f.Label
	if label == "" {
		label = f.Extension
	}

	if err := w.writeSheet(label, f.Columns, f.Records); err != nil {
		return err
	}

	companies := make([][]string, 0, len(f.Companies))
	for _, s := range models.SortByMetric(f.Companies, models.MetricRequests) {
		companies = append(companies, []string{
			s.Company, fmt.Sprint(s.Employees), fmt.Sprint(s.Requests),
		})
	}
	return w.writeSheet(label+" Companies", []string{"Company", "Employees", "Requests"}, companies)
}

func (w *XLSXWriter) writeSheet(name string, header []string, records [][]string) error {
	if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("xlsx: new sheet %q: %w", name, err)
	}
	w.sheets++

	if err := w.setRow(name, 1, header); err != nil {
		return err
	}
	for i, rec := range records {
		if err := w.setRow(name, i+2, rec); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) setRow(sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := w.file.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("xlsx: write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// Close saves the workbook when at least one export was written and
// releases it either way.
func (w *XLSXWriter) Close() error {
	defer w.file.Close()

	if w.sheets == 0 {
		return nil
	}
	if idx, err := w.file.GetSheetIndex(defaultSheet); err == nil && idx >= 0 {
		if err := w.file.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("xlsx: drop default sheet: %w", err)
		}
		w.file.SetActiveSheet(0)
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", w.path, err)
	}
	return nil
}
