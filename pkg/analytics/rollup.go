package analytics

import (
	"sort"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// BuildComponentHeatmap counts severities per known component. Records
// without a component are left out of this view only. Rows carry no
// ranking; they are sorted by name so repeated runs serialize identically.
func BuildComponentHeatmap(records []NormalizedRecord) []model.ComponentRow {
	byComponent := make(map[string]*model.SeverityCounts)
	for _, r := range records {
		if r.IsMissingComponent {
			continue
		}
		counts, ok := byComponent[r.Component]
		if !ok {
			counts = &model.SeverityCounts{}
			byComponent[r.Component] = counts
		}
		counts.Add(r.Severity)
	}

	rows := make([]model.ComponentRow, 0, len(byComponent))
	for component, counts := range byComponent {
		rows = append(rows, model.ComponentRow{
			Component:      component,
			SeverityCounts: *counts,
			Total:          counts.Total(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Component < rows[j].Component
	})

	return rows
}

// BuildReleaseCalendar rolls records up per release. Every distinct
// release yields one row. Rows are sorted by release string for stable
// output; that order says nothing about release chronology.
func BuildReleaseCalendar(records []NormalizedRecord) []model.ReleaseRow {
	byRelease := make(map[types.ReleaseTag]*model.ReleaseRow)
	for _, r := range records {
		row, ok := byRelease[r.Release]
		if !ok {
			row = &model.ReleaseRow{Release: r.Release}
			byRelease[r.Release] = row
		}
		row.Total++
		if r.IsOpen {
			row.Open++
		}
	}

	rows := make([]model.ReleaseRow, 0, len(byRelease))
	for _, row := range byRelease {
		row.Closed = row.Total - row.Open
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Release < rows[j].Release
	})

	return rows
}
