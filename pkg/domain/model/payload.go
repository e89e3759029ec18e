package model

import "github.com/secmon-lab/defectlens/pkg/domain/types"

// AnalyticsPayload is the aggregate served to the dashboard. It is built
// once per request and never modified afterwards.
type AnalyticsPayload struct {
	KPIs                     KPISummary       `json:"kpis"`
	DataQuality              DataQuality      `json:"data_quality"`
	RecurrenceAnalysis       []RecurrenceItem `json:"recurrence_analysis"`
	SeverityTrends           []SeverityTrend  `json:"severity_trends"`
	ComponentSeverityHeatmap []ComponentRow   `json:"component_severity_heatmap"`
	ReleaseCalendar          []ReleaseRow     `json:"release_calendar"`
}

// KPISummary holds the scalar headline metrics
type KPISummary struct {
	TotalDefects             int     `json:"total_defects"`
	OpenDefects              int     `json:"open_defects"`
	CriticalDefects          int     `json:"critical_defects"`
	RecurrenceRate           float64 `json:"recurrence_rate"`     // percent, one decimal
	AvgResolutionTime        float64 `json:"avg_resolution_time"` // days, one decimal
	MissingRequiredFieldsPct float64 `json:"missing_required_fields_pct"`
}

// DataQuality reports completeness of the quality-relevant fields
type DataQuality struct {
	TotalRecords        int     `json:"total_records"`
	MissingComponent    int     `json:"missing_component"`
	MissingOwner        int     `json:"missing_owner"`
	MissingDescription  int     `json:"missing_description"`
	OverallQuality      float64 `json:"overall_quality"`
	InconsistentRecords int     `json:"inconsistent_records"`
	RejectedRecords     int     `json:"rejected_records"`
}

// RecurrenceItem is one title group in the recurrence ranking
type RecurrenceItem struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// SeverityCounts holds one counter per severity
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Add increments the counter of the given severity
func (c *SeverityCounts) Add(s types.Severity) {
	switch s {
	case types.SeverityCritical:
		c.Critical++
	case types.SeverityHigh:
		c.High++
	case types.SeverityMedium:
		c.Medium++
	case types.SeverityLow:
		c.Low++
	}
}

// Total returns the sum over all severities
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// SeverityTrend is one month of the severity time series
type SeverityTrend struct {
	Month types.Month `json:"month"`
	SeverityCounts
}

// ComponentRow is one row of the component x severity matrix
type ComponentRow struct {
	Component string `json:"component"`
	SeverityCounts
	Total int `json:"total"`
}

// ReleaseRow is the rollup of one release
type ReleaseRow struct {
	Release types.ReleaseTag `json:"release"`
	Total   int              `json:"total"`
	Open    int              `json:"open"`
	Closed  int              `json:"closed"`
}

// OpenPct returns the open share of the release in percent
func (r ReleaseRow) OpenPct() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Open) / float64(r.Total) * 100
}

// MaxComponentTotal returns the largest row total, which dashboards use
// to scale heatmap intensity
func MaxComponentTotal(rows []ComponentRow) int {
	highest := 0
	for _, row := range rows {
		if row.Total > highest {
			highest = row.Total
		}
	}
	return highest
}
