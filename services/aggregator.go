package services

import (
	"cursor-stats/models"
	"cursor-stats/utils"
)

// Aggregator filters rows to one extension and optional email domain, then
// merges the rows of each user into one.
type Aggregator struct {
	logger *utils.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate returns one merged row per email among the rows matching
// extension and domain. models.NoDomain disables domain filtering.
//
// Grouping uses the exact email value; domain matching ignores case.
// Groups come out in the order their email was first seen.
func (a *Aggregator) Aggregate(rows []*models.Row, extension string, domain models.EmailDomain) []*models.Row {
	groups := make(map[string][]*models.Row)
	var order []string
	kept := 0

	for _, r := range rows {
		if !r.MatchesExtension(extension) {
			continue
		}
		email := r.Email()
		if domain != models.NoDomain && !domain.Accepts(email) {
			continue
		}
		if _, seen := groups[email]; !seen {
			order = append(order, email)
		}
		groups[email] = append(groups[email], r)
		kept++
	}

	merged := make([]*models.Row, 0, len(order))
	for _, email := range order {
		merged = append(merged, mergeRows(email, groups[email]))
	}

	a.logger.Debug("[aggregator] ext=%s domain=%q: %d rows → %d kept → %d users",
		extension, domain, len(rows), kept, len(merged))
	return merged
}

// AggregateAsync runs Aggregate on its own goroutine and delivers the
// result once on the returned channel, which is then closed.
func (a *Aggregator) AggregateAsync(rows []*models.Row, extension string, domain models.EmailDomain) <-chan []*models.Row {
	out := make(chan []*models.Row, 1)
	go func() {
		defer close(out)
		out <- a.Aggregate(rows, extension, domain)
	}()
	return out
}
