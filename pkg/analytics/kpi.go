package analytics

import (
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
	"gonum.org/v1/gonum/stat"
)

// SummarizeKPIs computes the headline metrics
func SummarizeKPIs(records []NormalizedRecord) model.KPISummary {
	summary := model.KPISummary{
		TotalDefects: len(records),
	}

	titleCounts := make(map[string]int, len(records))
	var resolutionDays []float64

	for _, r := range records {
		if r.IsOpen {
			summary.OpenDefects++
		}
		if r.Severity == types.SeverityCritical {
			summary.CriticalDefects++
		}
		if r.HasResolution {
			resolutionDays = append(resolutionDays, r.ResolutionDays)
		}
		titleCounts[r.TitleKey]++
	}

	recurring := 0
	for _, r := range records {
		if titleCounts[r.TitleKey] >= 2 {
			recurring++
		}
	}
	summary.RecurrenceRate = round1(percent(recurring, len(records)))

	if len(resolutionDays) > 0 {
		summary.AvgResolutionTime = round1(stat.Mean(resolutionDays, nil))
	}

	summary.MissingRequiredFieldsPct = round1(missingRequiredPct(records))

	return summary
}
