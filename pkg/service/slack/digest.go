package slack

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/slack-go/slack"
)

// digestTopReleases caps the release section so the message stays within block limits
const digestTopReleases = 5

// qualityEmoji returns emoji based on quality label
func qualityEmoji(label string) string {
	switch label {
	case model.QualityGood:
		return "✅"
	case model.QualityFair:
		return "⚠️"
	default:
		return "🚨"
	}
}

// BuildDigestBlocks renders the KPI digest message
func BuildDigestBlocks(payload *model.AnalyticsPayload, labels *model.Labels, filter *model.DefectFilter) []slack.Block {
	kpis := payload.KPIs

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "Defect analytics digest", false, false),
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Scope: `%s`", filter.String()), false, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Total*\n%d", kpis.TotalDefects), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Open*\n%d", kpis.OpenDefects), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Critical*\n%d", kpis.CriticalDefects), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Recurrence rate*\n%.1f%%", kpis.RecurrenceRate), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Avg resolution*\n%.1f days", kpis.AvgResolutionTime), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Missing fields*\n%.1f%%", kpis.MissingRequiredFieldsPct), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("%s *Data quality:* %.1f (%s)", qualityEmoji(labels.Quality.Label), labels.Quality.Score, labels.Quality.Label),
				false, false),
			nil, nil,
		),
	}

	if len(payload.RecurrenceAnalysis) > 0 {
		var lines []string
		for i, item := range payload.RecurrenceAnalysis {
			if i >= 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("• %s (%d)", item.Title, item.Count))
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*Top recurring*\n"+strings.Join(lines, "\n"), false, false),
			nil, nil,
		))
	}

	var atRisk []string
	for _, r := range labels.Releases {
		if r.Label != model.ReleaseAtRisk {
			continue
		}
		if len(atRisk) >= digestTopReleases {
			break
		}
		atRisk = append(atRisk, fmt.Sprintf("• `%s` %.1f%% open", r.Release, r.OpenPct))
	}
	if len(atRisk) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*Releases at risk*\n"+strings.Join(atRisk, "\n"), false, false),
			nil, nil,
		))
	}

	return blocks
}

// DigestFallbackText is the notification text for clients that cannot render blocks
func DigestFallbackText(payload *model.AnalyticsPayload) string {
	return fmt.Sprintf("Defect digest: %d total, %d open, %d critical",
		payload.KPIs.TotalDefects, payload.KPIs.OpenDefects, payload.KPIs.CriticalDefects)
}
