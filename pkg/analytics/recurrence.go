package analytics

import (
	"sort"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
)

const (
	// MaxRecurrenceLimit is the largest number of title groups a payload carries
	MaxRecurrenceLimit = 10
	// DefaultRecurrenceLimit is the number of title groups returned by default
	DefaultRecurrenceLimit = MaxRecurrenceLimit
)

// RankRecurrence groups records by title key and returns the largest
// groups, count descending and title ascending on ties. Grouping is an
// exact match on the key; it is not a similarity search.
func RankRecurrence(records []NormalizedRecord, limit int) []model.RecurrenceItem {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.TitleKey]++
	}

	items := make([]model.RecurrenceItem, 0, len(counts))
	for title, count := range counts {
		items = append(items, model.RecurrenceItem{Title: title, Count: count})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Title < items[j].Title
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
