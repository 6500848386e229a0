package models

import (
	"fmt"
	"sort"
)

// CompanyStat is the per-company roll-up of merged rows.
type CompanyStat struct {
	Company   string
	Employees int
	Requests  int
}

// ChartMetric selects which CompanyStat value a chart or ranking uses.
type ChartMetric string

const (
	MetricEmployees ChartMetric = "employees"
	MetricRequests  ChartMetric = "requests"
)

// ChartType selects the chart shape.
type ChartType string

const (
	ChartPie ChartType = "pie"
	ChartBar ChartType = "bar"
)

// ParseChartMetric accepts "employees" or "requests".
func ParseChartMetric(s string) (ChartMetric, error) {
	switch ChartMetric(s) {
	case MetricEmployees, MetricRequests:
		return ChartMetric(s), nil
	}
	return "", fmt.Errorf("unknown chart metric %q", s)
}

// ParseChartType accepts "pie" or "bar".
func ParseChartType(s string) (ChartType, error) {
	switch ChartType(s) {
	case ChartPie, ChartBar:
		return ChartType(s), nil
	}
	return "", fmt.Errorf("unknown chart type %q", s)
}

// Label is the capitalised metric name used in headings.
func (m ChartMetric) Label() string {
	if m == MetricRequests {
		return "Requests"
	}
	return "Employees"
}

// Value returns the stat's value for metric m.
func (c CompanyStat) Value(m ChartMetric) int {
	if m == MetricRequests {
		return c.Requests
	}
	return c.Employees
}

// SortByMetric returns a copy of stats ordered by metric, largest first.
// Equal values are ordered by company name.
func SortByMetric(stats []CompanyStat, m ChartMetric) []CompanyStat {
	out := append([]CompanyStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Value(m), out[j].Value(m)
		if vi != vj {
			return vi > vj
		}
		return out[i].Company < out[j].Company
	})
	return out
}

// Totals sums employees and requests over all companies.
func Totals(stats []CompanyStat) (employees, requests int) {
	for _, s := range stats {
		employees += s.Employees
		requests += s.Requests
	}
	return employees, requests
}

// LoadSummary describes the raw rows of a load before any merging.
type LoadSummary struct {
	TotalRows     int
	UniqueUsers   int
	SwiftRows     int
	KotlinRows    int
	UsersByDomain map[EmailDomain]int
}
