package analytics

import (
	"github.com/secmon-lab/defectlens/pkg/domain/model"
)

// ScoreDataQuality counts missing quality fields and derives the overall
// score. An empty set scores 0 like every other rate. RejectedRecords is
// left for the engine, which is the only stage that sees rejections.
func ScoreDataQuality(records []NormalizedRecord) model.DataQuality {
	c, o, d := missingFieldCount(records)
	q := model.DataQuality{
		TotalRecords:       len(records),
		MissingComponent:   c,
		MissingOwner:       o,
		MissingDescription: d,
	}

	for _, r := range records {
		if r.IsInconsistent() {
			q.InconsistentRecords++
		}
	}

	if len(records) > 0 {
		score := 100 - missingRequiredPct(records)
		q.OverallQuality = round1(min(max(score, 0), 100))
	}

	return q
}
