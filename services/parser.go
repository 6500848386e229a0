package services

import (
	"strings"
	"unicode/utf8"

	"cursor-stats/models"
	"cursor-stats/utils"
)

const byteOrderMark = "\ufeff"

// Parser turns raw CSV exports into Rows.
type Parser struct {
	logger *utils.Logger
}

// NewParser creates a Parser with the given logger.
func NewParser(logger *utils.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse splits text into lines, reads the first line as the header and the
// rest as data. Input with fewer than two lines yields no rows.
//
// The header is split on every comma, without quote handling. Data lines are
// split with quote awareness and kept only when they carry at least as many
// values as there are headers.
func (p *Parser) Parse(text string) []*models.Row {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil
	}

	schema := models.NewSchema(strings.Split(strings.TrimPrefix(lines[0], byteOrderMark), ","))
	rows := make([]*models.Row, 0, len(lines)-1)
	short := 0

	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		values := splitQuoted(line)
		if len(values) < schema.Len() {
			short++
			continue
		}
		rows = append(rows, models.NewRow(schema, values))
	}

	if short > 0 {
		p.logger.Debug("[parser] Skipped %d line(s) with fewer than %d values", short, schema.Len())
	}
	p.logger.Debug("[parser] Parsed %d rows over %d columns", len(rows), schema.Len())
	return rows
}

// splitQuoted splits a line on commas outside double quotes. The quote
// character only toggles state and never lands in a value.
func splitQuoted(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(values, strings.TrimSpace(current.String()))
}

// splitLines breaks text at every newline character. "\r\n" produces an
// empty line between its two characters, which data parsing skips.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if isNewline(r) {
			lines = append(lines, text[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(lines, text[start:])
}

func isNewline(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
