package services

import (
	"cursor-stats/models"
	"cursor-stats/utils"
)

// CompanyStatsReducer rolls rows up to per-company figures.
type CompanyStatsReducer struct {
	logger *utils.Logger
}

// NewCompanyStatsReducer creates a CompanyStatsReducer with the given logger.
func NewCompanyStatsReducer(logger *utils.Logger) *CompanyStatsReducer {
	return &CompanyStatsReducer{logger: logger}
}

// Summarize counts distinct emails and sums request columns per company.
// Companies are returned in the order they first appear.
func (c *CompanyStatsReducer) Summarize(rows []*models.Row) []models.CompanyStat {
	emails := make(map[string]map[string]struct{})
	requests := make(map[string]int)
	var order []string

	for _, r := range rows {
		email := r.Email()
		company := models.CompanyForEmail(email)
		if _, seen := emails[company]; !seen {
			emails[company] = make(map[string]struct{})
			order = append(order, company)
		}
		emails[company][email] = struct{}{}
		requests[company] += r.RequestTotal()
	}

	stats := make([]models.CompanyStat, 0, len(order))
	for _, company := range order {
		stat := models.CompanyStat{
			Company:   company,
			Employees: len(emails[company]),
			Requests:  requests[company],
		}
		if stat.Employees == 0 && stat.Requests == 0 {
			continue
		}
		stats = append(stats, stat)
	}

	c.logger.Debug("[companies] %d rows → %d companies", len(rows), len(stats))
	return stats
}

// SummarizeLoad describes raw, unmerged rows: row and user counts, rows per
// mobile extension and distinct users per known domain.
func (c *CompanyStatsReducer) SummarizeLoad(rows []*models.Row) models.LoadSummary {
	summary := models.LoadSummary{
		TotalRows:     len(rows),
		UsersByDomain: make(map[models.EmailDomain]int),
	}

	users := make(map[string]struct{})
	domainUsers := make(map[models.EmailDomain]map[string]struct{})

	for _, r := range rows {
		email := r.Email()
		users[email] = struct{}{}

		if r.MatchesExtension("swift") {
			summary.SwiftRows++
		}
		if r.MatchesExtension("kotlin") {
			summary.KotlinRows++
		}

		for _, d := range models.ConcreteDomains() {
			if !d.Accepts(email) {
				continue
			}
			if domainUsers[d] == nil {
				domainUsers[d] = make(map[string]struct{})
			}
			domainUsers[d][email] = struct{}{}
		}
	}

	summary.UniqueUsers = len(users)
	for d, set := range domainUsers {
		summary.UsersByDomain[d] = len(set)
	}
	return summary
}
