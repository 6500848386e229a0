// Package report renders company usage charts as standalone HTML and as
// PNG screenshots taken with headless Chrome.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"cursor-stats/models"
)

// ChartOptions controls what a chart shows and its canvas size in pixels.
type ChartOptions struct {
	Title  string
	Metric models.ChartMetric
	Type   models.ChartType
	Width  int
	Height int
}

// DefaultChartOptions is a pie chart of employees per company.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "Usage Dashboard",
		Metric: models.MetricEmployees,
		Type:   models.ChartPie,
		Width:  900,
		Height: 560,
	}
}

var palette = []string{
	"#fd5068", "#2b2b2b", "#3867d6", "#e84393",
	"#20bf6b", "#f7b731", "#8854d0", "#778ca3",
}

type chartSlice struct {
	Company string
	Value   int
	Percent float64
	Color   template.CSS
}

type chartView struct {
	Title          string
	Subtitle       string
	MetricLabel    string
	Pie            bool
	Slices         []chartSlice
	Gradient       template.CSS
	Width          int
	Height         int
	TotalEmployees int
	TotalRequests  int
}

// BuildChartHTML renders stats as a self-contained HTML page. Companies are
// ranked by the chosen metric. Bar widths are relative to the largest value,
// pie slices to the total.
func BuildChartHTML(stats []models.CompanyStat, opts ChartOptions) (string, error) {
	if opts.Metric == "" {
		opts.Metric = models.MetricEmployees
	}
	if opts.Type == "" {
		opts.Type = models.ChartPie
	}

	sorted := models.SortByMetric(stats, opts.Metric)
	total, top := 0, 0
	for _, s := range sorted {
		v := s.Value(opts.Metric)
		total += v
		if v > top {
			top = v
		}
	}

	view := chartView{
		Title:       opts.Title,
		Subtitle:    "Visualize which companies use Cursor the most",
		MetricLabel: opts.Metric.Label(),
		Pie:         opts.Type == models.ChartPie,
		Width:       opts.Width,
		Height:      opts.Height,
	}
	view.TotalEmployees, view.TotalRequests = models.Totals(stats)

	var stops []string
	angle := 0.0
	for i, s := range sorted {
		v := s.Value(opts.Metric)
		slice := chartSlice{
			Company: s.Company,
			Value:   v,
			Color:   template.CSS(palette[i%len(palette)]),
		}
		switch {
		case view.Pie && total > 0:
			slice.Percent = float64(v) * 100 / float64(total)
		case !view.Pie && top > 0:
			slice.Percent = float64(v) * 100 / float64(top)
		}
		view.Slices = append(view.Slices, slice)

		if view.Pie && total > 0 {
			next := angle + float64(v)*360/float64(total)
			stops = append(stops, fmt.Sprintf("%s %.2fdeg %.2fdeg", slice.Color, angle, next))
			angle = next
		}
	}
	if len(stops) > 0 {
		view.Gradient = template.CSS("conic-gradient(" + strings.Join(stops, ", ") + ")")
	}

	var buf bytes.Buffer
	if err := chartTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("chart: render html: %w", err)
	}
	return buf.String(), nil
}

var chartTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: -apple-system, "Helvetica Neue", Arial, sans-serif; background: #f4f4f6; }
  #chart { box-sizing: border-box; width: {{.Width}}px; min-height: {{.Height}}px; padding: 24px; background: #fff; }
  h1 { margin: 0; font-size: 22px; }
  .sub { color: #777; margin: 4px 0 20px; }
  .pie { width: 320px; height: 320px; border-radius: 50%; position: relative; float: left; margin-right: 32px; }
  .pie .hole { position: absolute; inset: 25%; background: #fff; border-radius: 50%; }
  .legend div { margin: 6px 0; }
  .swatch { display: inline-block; width: 12px; height: 12px; margin-right: 8px; border-radius: 2px; }
  .row { display: flex; align-items: center; margin: 8px 0; }
  .row .name { width: 110px; }
  .row .bar { height: 22px; border-radius: 3px; }
  .row .val { margin-left: 8px; color: #444; }
  .totals { clear: both; padding-top: 24px; color: #666; }
  .empty { color: #777; }
</style>
</head>
<body>
<div id="chart">
  <h1>{{.Title}}</h1>
  <div class="sub">{{.Subtitle}} ({{.MetricLabel}})</div>
  {{if not .Slices}}
  <div class="empty">No processed data available.</div>
  {{else if .Pie}}
  <div class="pie" style="background: {{.Gradient}}"><div class="hole"></div></div>
  <div class="legend">
    {{range .Slices}}<div><span class="swatch" style="background: {{.Color}}"></span>{{.Company}}: {{.Value}} ({{printf "%.1f" .Percent}}%)</div>
    {{end}}
  </div>
  {{else}}
  {{range .Slices}}<div class="row"><span class="name">{{.Company}}</span><span class="bar" style="background: {{.Color}}; width: {{printf "%.2f" .Percent}}%"></span><span class="val">{{.Value}}</span></div>
  {{end}}
  {{end}}
  <div class="totals">Total employees: {{.TotalEmployees}} &nbsp;·&nbsp; Total requests: {{.TotalRequests}}</div>
</div>
</body>
</html>
`))
