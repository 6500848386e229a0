package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"cursor-stats/models"
	"cursor-stats/utils"
)

// Pipeline wires parsing, aggregation, export and company roll-up for a
// set of input files.
type Pipeline struct {
	logger         *utils.Logger
	maxConcurrency int

	Parser     *Parser
	Aggregator *Aggregator
	Exporter   *Exporter
	Reducer    *CompanyStatsReducer
}

// NewPipeline creates a Pipeline that reads at most maxConcurrency files at once.
func NewPipeline(logger *utils.Logger, maxConcurrency int) *Pipeline {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Pipeline{
		logger:         logger,
		maxConcurrency: maxConcurrency,
		Parser:         NewParser(logger),
		Aggregator:     NewAggregator(logger),
		Exporter:       NewExporter(logger),
		Reducer:        NewCompanyStatsReducer(logger),
	}
}

// LoadFiles reads and parses every path in parallel and concatenates the
// rows in path order once all reads are done. A file that cannot be read
// is logged and skipped; its error is part of the returned joined error and
// the rows of the other files are still returned.
func (p *Pipeline) LoadFiles(ctx context.Context, paths []string) ([]*models.Row, error) {
	perFile := make([][]*models.Row, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(p.maxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("load %s: %w", path, err)
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				p.logger.Error("[pipeline] Failed to read %s: %v", path, err)
				errs[i] = fmt.Errorf("load %s: %w", path, err)
				return nil
			}
			perFile[i] = p.Parser.Parse(string(data))
			p.logger.Info("[pipeline] Loaded %s: %d rows", path, len(perFile[i]))
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, rows := range perFile {
		total += len(rows)
	}
	all := make([]*models.Row, 0, total)
	for _, rows := range perFile {
		all = append(all, rows...)
	}

	return all, errors.Join(errs...)
}

// BuildExport aggregates rows for one variant and renders everything a sink needs.
func (p *Pipeline) BuildExport(rows []*models.Row, variant models.Variant, domain models.EmailDomain) models.ExportFile {
	merged := p.Aggregator.Aggregate(rows, variant.Extension, domain)
	return p.export(variant, domain, merged)
}

// BuildExports aggregates every variant on its own goroutine and returns
// the exports in variant order.
func (p *Pipeline) BuildExports(rows []*models.Row, variants []models.Variant, domain models.EmailDomain) []models.ExportFile {
	pending := make([]<-chan []*models.Row, len(variants))
	for i, v := range variants {
		pending[i] = p.Aggregator.AggregateAsync(rows, v.Extension, domain)
	}

	files := make([]models.ExportFile, len(variants))
	for i, v := range variants {
		files[i] = p.export(v, domain, <-pending[i])
	}
	return files
}

func (p *Pipeline) export(variant models.Variant, domain models.EmailDomain, merged []*models.Row) models.ExportFile {
	columns, records := p.Exporter.Table(merged)
	f := models.ExportFile{
		Variant:   variant,
		Domain:    domain,
		Rows:      p.Exporter.ToPreviewRows(merged),
		Columns:   columns,
		Records:   records,
		Text:      p.Exporter.ToCSVText(merged),
		Companies: p.Reducer.Summarize(merged),
	}
	p.logger.Info("[pipeline] %s (%s): %d merged users across %d companies",
		variant.Label, variant.Extension, len(f.Rows), len(f.Companies))
	return f
}
