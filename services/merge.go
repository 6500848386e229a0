package services

import (
	"strconv"

	"cursor-stats/models"
)

// mergeRows collapses the rows of one user into a single row.
//
// Numeric columns are summed, Email is forced to the group key, User ID is
// taken from the first row, Date becomes the merged marker, the model column
// is the most used model, and every other column keeps its first non-empty
// value in row order. The result uses the first row's schema.
func mergeRows(email string, rows []*models.Row) *models.Row {
	first := rows[0]
	n := len(first.Values)
	if h := first.Schema.Len(); h > n {
		n = h
	}
	values := make([]string, n)
	copy(values, first.Values)

	for i, header := range first.Headers() {
		switch {
		case models.IsNumericColumn(header):
			values[i] = strconv.Itoa(sumColumn(rows, header))
		case header == models.ColEmail:
			values[i] = email
		case header == models.ColUserID:
			values[i] = first.Value(header)
		case header == models.ColDate:
			values[i] = models.MergedDateMarker
		case header == models.ColModel:
			values[i] = mostUsedModel(rows)
		default:
			values[i] = firstNonEmpty(rows, header)
		}
	}

	return models.NewRow(first.Schema, values)
}

func sumColumn(rows []*models.Row, header string) int {
	sum := 0
	for _, r := range rows {
		sum += r.Int(header)
	}
	return sum
}

func firstNonEmpty(rows []*models.Row, header string) string {
	for _, r := range rows {
		if v := r.Value(header); v != "" {
			return v
		}
	}
	return ""
}

// mostUsedModel picks the model with the highest summed request usage.
// Equal totals keep the model seen first. Without any positive usage it
// falls back to the first non-empty model.
func mostUsedModel(rows []*models.Row) string {
	usage := make(map[string]int)
	var order []string

	for _, r := range rows {
		model := r.Value(models.ColModel)
		if model == "" {
			continue
		}
		if _, seen := usage[model]; !seen {
			order = append(order, model)
		}
		usage[model] += r.RequestTotal()
	}

	best, bestUsage := "", 0
	for _, model := range order {
		if usage[model] > bestUsage {
			best, bestUsage = model, usage[model]
		}
	}
	if best != "" {
		return best
	}
	return firstNonEmpty(rows, models.ColModel)
}
