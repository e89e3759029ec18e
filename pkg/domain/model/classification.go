package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// Quality labels
const (
	QualityGood = "Good"
	QualityFair = "Fair"
	QualityPoor = "Poor"
)

// Release health labels
const (
	ReleaseHealthy = "Healthy"
	ReleaseAtRisk  = "At Risk"
)

// Classification maps numeric scores onto display labels. It is kept
// apart from the analytics payload so bands can be swapped per deployment.
type Classification struct {
	Quality QualityBands `yaml:"quality"`
	Release ReleaseBands `yaml:"release"`
}

// QualityBands holds the lower bounds of the Good and Fair labels
type QualityBands struct {
	Good float64 `yaml:"good"`
	Fair float64 `yaml:"fair"`
}

// ReleaseBands holds the open percentage from which a release is at risk
type ReleaseBands struct {
	AtRiskOpenPct float64 `yaml:"at_risk_open_pct"`
}

// DefaultClassification returns the bands used by the dashboard
func DefaultClassification() *Classification {
	return &Classification{
		Quality: QualityBands{Good: 80, Fair: 60},
		Release: ReleaseBands{AtRiskOpenPct: 30},
	}
}

// Validate validates the classification bands
func (c *Classification) Validate() error {
	if c.Quality.Fair < 0 || c.Quality.Good > 100 {
		return goerr.New("quality bands must be within 0-100",
			goerr.V("good", c.Quality.Good),
			goerr.V("fair", c.Quality.Fair))
	}
	if c.Quality.Fair > c.Quality.Good {
		return goerr.New("fair band must not exceed good band",
			goerr.V("good", c.Quality.Good),
			goerr.V("fair", c.Quality.Fair))
	}
	if c.Release.AtRiskOpenPct <= 0 || c.Release.AtRiskOpenPct > 100 {
		return goerr.New("at-risk open percentage must be within (0, 100]",
			goerr.V("at_risk_open_pct", c.Release.AtRiskOpenPct))
	}
	return nil
}

// QualityLabel returns the label of an overall quality score
func (c *Classification) QualityLabel(score float64) string {
	switch {
	case score >= c.Quality.Good:
		return QualityGood
	case score >= c.Quality.Fair:
		return QualityFair
	default:
		return QualityPoor
	}
}

// ReleaseLabel returns the health label of a release rollup row
func (c *Classification) ReleaseLabel(row ReleaseRow) string {
	if row.OpenPct() < c.Release.AtRiskOpenPct {
		return ReleaseHealthy
	}
	return ReleaseAtRisk
}

// Labels is the classified view of a payload
type Labels struct {
	Quality  QualityLabel   `json:"quality"`
	Releases []ReleaseLabel `json:"releases"`
}

// QualityLabel pairs the quality score with its label
type QualityLabel struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// ReleaseLabel pairs a release with its open share and label
type ReleaseLabel struct {
	Release types.ReleaseTag `json:"release"`
	OpenPct float64          `json:"open_pct"`
	Label   string           `json:"label"`
}

// Classify labels the scores of a payload
func (c *Classification) Classify(p *AnalyticsPayload) *Labels {
	labels := &Labels{
		Quality: QualityLabel{
			Score: p.DataQuality.OverallQuality,
			Label: c.QualityLabel(p.DataQuality.OverallQuality),
		},
		Releases: make([]ReleaseLabel, 0, len(p.ReleaseCalendar)),
	}

	for _, row := range p.ReleaseCalendar {
		labels.Releases = append(labels.Releases, ReleaseLabel{
			Release: row.Release,
			OpenPct: math.Round(row.OpenPct()*10) / 10,
			Label:   c.ReleaseLabel(row),
		})
	}
	return labels
}
