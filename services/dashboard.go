package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"cursor-stats/models"
)

const (
	dashboardWidth = 54
	maxBarWidth    = 30
)

var (
	titleColor   = color.New(color.FgMagenta, color.Bold)
	sectionColor = color.New(color.FgYellow, color.Bold)
	valueColor   = color.New(color.Bold)
	barColor     = color.New(color.FgGreen)
)

// Dashboard prints load and company summaries to a terminal.
type Dashboard struct {
	out io.Writer
}

// NewDashboard creates a Dashboard writing to out.
func NewDashboard(out io.Writer) *Dashboard {
	return &Dashboard{out: out}
}

// PrintLoad prints what was read before any merging.
func (d *Dashboard) PrintLoad(s models.LoadSummary) {
	d.banner("CURSOR USAGE: LOADED CSV")

	d.section("Overview")
	d.line("Total rows", s.TotalRows)
	d.line("Unique users", s.UniqueUsers)
	d.line("Swift extension rows", s.SwiftRows)
	d.line("Kotlin extension rows", s.KotlinRows)
	fmt.Fprintln(d.out)

	d.section("Users by domain")
	for _, dom := range models.ConcreteDomains() {
		d.line(dom.Company()+" users", s.UsersByDomain[dom])
	}

	d.footer()
}

// PrintCompanies prints a ranked bar table of stats for metric, followed by totals.
func (d *Dashboard) PrintCompanies(title string, stats []models.CompanyStat, metric models.ChartMetric) {
	d.banner(strings.ToUpper(title))

	d.section("Usage by company (" + metric.Label() + ")")
	if len(stats) == 0 {
		fmt.Fprintf(d.out, "  No processed data available.\n")
	} else {
		sorted := models.SortByMetric(stats, metric)
		top := sorted[0].Value(metric)
		for _, s := range sorted {
			fmt.Fprintf(d.out, "  %-12s %s (%d)\n",
				s.Company, barColor.Sprint(bar(s.Value(metric), top)), s.Value(metric))
		}
	}
	fmt.Fprintln(d.out)

	employees, requests := models.Totals(stats)
	d.section("Totals")
	d.line("Total employees", employees)
	d.line("Total requests", requests)

	d.footer()
}

// PrintRows prints up to limit merged rows as a compact table. A limit of
// zero or less prints every row.
func (d *Dashboard) PrintRows(rows []*models.Row, limit int) {
	d.section(fmt.Sprintf("Merged users (%d)", len(rows)))
	if len(rows) == 0 {
		fmt.Fprintf(d.out, "  No merged rows\n\n")
		return
	}

	fmt.Fprintf(d.out, "  %-32s %-14s %-20s %8s\n", "Email", "User ID", "Model", "Requests")
	for i, r := range rows {
		if limit > 0 && i >= limit {
			fmt.Fprintf(d.out, "  … %d more\n", len(rows)-limit)
			break
		}
		fmt.Fprintf(d.out, "  %-32s %-14s %-20s %8d\n",
			truncate(r.Email(), 32),
			truncate(r.Value(models.ColUserID), 14),
			truncate(r.Value(models.ColModel), 20),
			r.RequestTotal())
	}
	fmt.Fprintln(d.out)
}

func (d *Dashboard) banner(title string) {
	sep := strings.Repeat("═", dashboardWidth)
	fmt.Fprintln(d.out)
	titleColor.Fprintln(d.out, sep)
	titleColor.Fprintf(d.out, "  %s\n", title)
	titleColor.Fprintln(d.out, sep)
	fmt.Fprintln(d.out)
}

func (d *Dashboard) section(name string) {
	sectionColor.Fprintf(d.out, "  %s\n", name)
	fmt.Fprintf(d.out, "  %s\n", strings.Repeat("─", dashboardWidth))
}

func (d *Dashboard) line(label string, n int) {
	fmt.Fprintf(d.out, "  %-24s: %s\n", label, valueColor.Sprint(n))
}

func (d *Dashboard) footer() {
	fmt.Fprintln(d.out)
	titleColor.Fprintln(d.out, strings.Repeat("═", dashboardWidth))
	fmt.Fprintln(d.out)
}

// bar scales n against top onto at most maxBarWidth blocks. Any positive
// value gets at least one block.
func bar(n, top int) string {
	if n <= 0 || top <= 0 {
		return ""
	}
	width := n * maxBarWidth / top
	if width == 0 {
		width = 1
	}
	return strings.Repeat("█", width)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
