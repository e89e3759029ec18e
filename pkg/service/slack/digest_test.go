package slack_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	slackSvc "github.com/secmon-lab/defectlens/pkg/service/slack"
)

func digestPayload() *model.AnalyticsPayload {
	return &model.AnalyticsPayload{
		KPIs: model.KPISummary{
			TotalDefects:    3,
			OpenDefects:     2,
			CriticalDefects: 2,
			RecurrenceRate:  66.7,
		},
		DataQuality: model.DataQuality{TotalRecords: 3, OverallQuality: 44.4},
		RecurrenceAnalysis: []model.RecurrenceItem{
			{Title: "npe", Count: 2},
			{Title: "leak", Count: 1},
		},
		ReleaseCalendar: []model.ReleaseRow{
			{Release: "v1", Total: 2, Open: 1, Closed: 1},
			{Release: "v2", Total: 4, Open: 1, Closed: 3},
		},
	}
}

func TestBuildDigestBlocks(t *testing.T) {
	payload := digestPayload()
	labels := model.DefaultClassification().Classify(payload)
	filter, err := model.NewDefectFilter("critical", "", "", "")
	gt.NoError(t, err).Required()

	blocks := slackSvc.BuildDigestBlocks(payload, labels, filter)
	raw, err := json.Marshal(blocks)
	gt.NoError(t, err).Required()
	text := string(raw)

	gt.S(t, text).Contains("Defect analytics digest")
	gt.S(t, text).Contains("severity=critical")
	gt.S(t, text).Contains("66.7%")
	gt.S(t, text).Contains("44.4 (Poor)")
	gt.S(t, text).Contains("npe (2)")
	// v1 is 50% open, v2 is 25% open
	gt.S(t, text).Contains("`v1` 50.0% open")
	gt.False(t, strings.Contains(text, "`v2`"))
}

func TestBuildDigestBlocksEmpty(t *testing.T) {
	payload := &model.AnalyticsPayload{}
	labels := model.DefaultClassification().Classify(payload)

	blocks := slackSvc.BuildDigestBlocks(payload, labels, nil)
	// header, scope, KPI fields, quality
	gt.Equal(t, len(blocks), 4)
}

func TestDigestFallbackText(t *testing.T) {
	gt.Equal(t, slackSvc.DigestFallbackText(digestPayload()), "Defect digest: 3 total, 2 open, 2 critical")
}
