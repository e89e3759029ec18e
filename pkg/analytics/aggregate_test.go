package analytics_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/defectlens/pkg/analytics"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

func normalized(t *testing.T, records []*model.DefectRecord) []analytics.NormalizedRecord {
	t.Helper()
	n, rejected := analytics.Normalize(records)
	gt.Equal(t, len(rejected), 0)
	return n
}

func TestSummarizeKPIs(t *testing.T) {
	t.Run("empty input has zero rates", func(t *testing.T) {
		kpis := analytics.SummarizeKPIs(nil)
		gt.Equal(t, kpis.RecurrenceRate, 0.0)
		gt.Equal(t, kpis.AvgResolutionTime, 0.0)
		gt.Equal(t, kpis.MissingRequiredFieldsPct, 0.0)
	})

	t.Run("no closed records gives zero resolution time", func(t *testing.T) {
		records := scenarioRecords()
		records[1].Status = types.DefectStatusOpen
		records[1].ResolvedAt = nil
		kpis := analytics.SummarizeKPIs(normalized(t, records))
		gt.Equal(t, kpis.AvgResolutionTime, 0.0)
		gt.Equal(t, kpis.OpenDefects, 3)
	})

	t.Run("inconsistent records are left out of the mean", func(t *testing.T) {
		records := scenarioRecords()
		bogus := *records[1]
		bogus.ID = "DEF-4"
		bogus.CreatedAt = day("2024-02-10")
		// resolved before created
		records = append(records, &bogus)
		kpis := analytics.SummarizeKPIs(normalized(t, records))
		gt.Equal(t, kpis.AvgResolutionTime, 9.0)
	})

	t.Run("all titles unique gives zero recurrence", func(t *testing.T) {
		records := scenarioRecords()
		records[1].Title = "Different"
		kpis := analytics.SummarizeKPIs(normalized(t, records))
		gt.Equal(t, kpis.RecurrenceRate, 0.0)
	})
}

func TestScoreDataQuality(t *testing.T) {
	t.Run("complete records score 100", func(t *testing.T) {
		r := validRecord()
		q := analytics.ScoreDataQuality(normalized(t, []*model.DefectRecord{r, r}))
		gt.Equal(t, q.OverallQuality, 100.0)
		gt.Equal(t, q.TotalRecords, 2)
	})

	t.Run("records missing everything score 0", func(t *testing.T) {
		r := validRecord()
		r.Component, r.Owner, r.Description = "", "", ""
		q := analytics.ScoreDataQuality(normalized(t, []*model.DefectRecord{r}))
		gt.Equal(t, q.OverallQuality, 0.0)
		gt.Equal(t, q.MissingComponent, 1)
		gt.Equal(t, q.MissingOwner, 1)
		gt.Equal(t, q.MissingDescription, 1)
	})

	t.Run("counts inconsistent records", func(t *testing.T) {
		r := validRecord()
		r.Status = "closed"
		q := analytics.ScoreDataQuality(normalized(t, []*model.DefectRecord{r, validRecord()}))
		gt.Equal(t, q.InconsistentRecords, 1)
	})
}

func TestRankRecurrence(t *testing.T) {
	build := func(titles ...string) []analytics.NormalizedRecord {
		records := make([]analytics.NormalizedRecord, 0, len(titles))
		for _, title := range titles {
			records = append(records, analytics.NormalizedRecord{TitleKey: analytics.TitleKey(title)})
		}
		return records
	}

	t.Run("ties are broken by title", func(t *testing.T) {
		items := analytics.RankRecurrence(build("b", "a", "c", "B", "A"), 10)
		gt.Equal(t, items, []model.RecurrenceItem{
			{Title: "a", Count: 2},
			{Title: "b", Count: 2},
			{Title: "c", Count: 1},
		})
	})

	t.Run("keeps the top ten", func(t *testing.T) {
		var titles []string
		for i := 0; i < 15; i++ {
			for j := 0; j <= i; j++ {
				titles = append(titles, fmt.Sprintf("title-%02d", i))
			}
		}
		items := analytics.RankRecurrence(build(titles...), analytics.DefaultRecurrenceLimit)
		gt.Equal(t, len(items), 10)
		gt.Equal(t, items[0], model.RecurrenceItem{Title: "title-14", Count: 15})
		gt.Equal(t, items[9], model.RecurrenceItem{Title: "title-05", Count: 6})
	})

	t.Run("fewer groups than the limit returns all", func(t *testing.T) {
		items := analytics.RankRecurrence(build("x", "y"), 10)
		gt.Equal(t, len(items), 2)
	})

	t.Run("near duplicates are not merged", func(t *testing.T) {
		items := analytics.RankRecurrence(build("NPE", "NullPointerException", "null reference"), 10)
		gt.Equal(t, len(items), 3)
	})
}

func TestBinSeverityTrends(t *testing.T) {
	records := []*model.DefectRecord{
		{ID: "1", Title: "a", Severity: "low", Status: "open", CreatedAt: day("2024-05-02"), Release: "v1"},
		{ID: "2", Title: "b", Severity: "critical", Status: "open", CreatedAt: day("2024-01-20"), Release: "v1"},
		{ID: "3", Title: "c", Severity: "Med", Status: "open", CreatedAt: day("2024-05-30"), Release: "v1"},
		{ID: "4", Title: "d", Severity: "high", Status: "open", CreatedAt: day("2023-12-31"), Release: "v1"},
	}

	trends := analytics.BinSeverityTrends(normalized(t, records))
	// February through April have no records and are not emitted
	gt.Equal(t, trends, []model.SeverityTrend{
		{Month: "2023-12", SeverityCounts: model.SeverityCounts{High: 1}},
		{Month: "2024-01", SeverityCounts: model.SeverityCounts{Critical: 1}},
		{Month: "2024-05", SeverityCounts: model.SeverityCounts{Medium: 1, Low: 1}},
	})
}

func TestBuildComponentHeatmap(t *testing.T) {
	records := []*model.DefectRecord{
		{ID: "1", Title: "a", Severity: "low", Status: "open", Component: "search", CreatedAt: day("2024-05-02"), Release: "v1"},
		{ID: "2", Title: "b", Severity: "critical", Status: "open", Component: "auth", CreatedAt: day("2024-05-02"), Release: "v1"},
		{ID: "3", Title: "c", Severity: "critical", Status: "open", Component: "auth ", CreatedAt: day("2024-05-02"), Release: "v1"},
		{ID: "4", Title: "d", Severity: "high", Status: "open", CreatedAt: day("2024-05-02"), Release: "v1"},
		{ID: "5", Title: "e", Severity: "high", Status: "open", Component: "Auth", CreatedAt: day("2024-05-02"), Release: "v1"},
	}

	rows := analytics.BuildComponentHeatmap(normalized(t, records))
	gt.Equal(t, rows, []model.ComponentRow{
		{Component: "Auth", SeverityCounts: model.SeverityCounts{High: 1}, Total: 1},
		{Component: "auth", SeverityCounts: model.SeverityCounts{Critical: 2}, Total: 2},
		{Component: "search", SeverityCounts: model.SeverityCounts{Low: 1}, Total: 1},
	})
	gt.Equal(t, model.MaxComponentTotal(rows), 2)
}

func TestBuildReleaseCalendar(t *testing.T) {
	records := []*model.DefectRecord{
		{ID: "1", Title: "a", Severity: "low", Status: "open", CreatedAt: day("2024-05-02"), Release: "v2.0.0"},
		{ID: "2", Title: "b", Severity: "low", Status: "in-progress", CreatedAt: day("2024-05-02"), Release: "TBD"},
		{ID: "3", Title: "c", Severity: "low", Status: "closed", CreatedAt: day("2024-05-02"), ResolvedAt: ptr(day("2024-05-03")), Release: "v2.0.0"},
		{ID: "4", Title: "d", Severity: "low", Status: "resolved", CreatedAt: day("2024-05-02"), Release: "v1.9.0"},
	}

	rows := analytics.BuildReleaseCalendar(normalized(t, records))
	gt.Equal(t, rows, []model.ReleaseRow{
		{Release: "TBD", Total: 1, Open: 1, Closed: 0},
		{Release: "v1.9.0", Total: 1, Open: 0, Closed: 1},
		{Release: "v2.0.0", Total: 2, Open: 1, Closed: 1},
	})
}
