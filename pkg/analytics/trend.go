package analytics

import (
	"sort"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// BinSeverityTrends counts records per UTC month and severity. Only months
// with at least one record are emitted; gaps are left to the consumer.
func BinSeverityTrends(records []NormalizedRecord) []model.SeverityTrend {
	buckets := make(map[types.Month]*model.SeverityCounts)
	for _, r := range records {
		counts, ok := buckets[r.Month]
		if !ok {
			counts = &model.SeverityCounts{}
			buckets[r.Month] = counts
		}
		counts.Add(r.Severity)
	}

	trends := make([]model.SeverityTrend, 0, len(buckets))
	for month, counts := range buckets {
		trends = append(trends, model.SeverityTrend{
			Month:          month,
			SeverityCounts: *counts,
		})
	}

	// "YYYY-MM" sorts chronologically as a string
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Month < trends[j].Month
	})

	return trends
}
