package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	slackSvc "github.com/secmon-lab/defectlens/pkg/service/slack"
	"github.com/slack-go/slack"
)

// Digest posts KPI summaries to Slack
type Digest struct {
	analytics   interfaces.Analytics
	slackClient interfaces.SlackClient
}

var _ interfaces.Digest = (*Digest)(nil)

// NewDigest creates a Digest use case
func NewDigest(analytics interfaces.Analytics, slackClient interfaces.SlackClient) *Digest {
	return &Digest{
		analytics:   analytics,
		slackClient: slackClient,
	}
}

// Verify checks the Slack token and logs the bot identity digests are posted as
func (u *Digest) Verify(ctx context.Context) error {
	resp, err := u.slackClient.AuthTestContext(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to verify Slack token")
	}

	ctxlog.From(ctx).Info("Slack digest enabled",
		"bot_user_id", resp.UserID,
		"bot_user", resp.User,
		"team", resp.Team,
	)
	return nil
}

// Publish computes analytics for the filter and posts the digest to channelID
func (u *Digest) Publish(ctx context.Context, channelID string, filter *model.DefectFilter) error {
	if channelID == "" {
		return goerr.New("slack channel is empty", goerr.T(model.ErrTagValidation))
	}

	payload, err := u.analytics.ComputeAnalytics(ctx, filter)
	if err != nil {
		return goerr.Wrap(err, "failed to compute digest")
	}
	labels := u.analytics.Classify(payload)

	channel, ts, err := u.slackClient.PostMessage(ctx, channelID,
		slack.MsgOptionText(slackSvc.DigestFallbackText(payload), false),
		slack.MsgOptionBlocks(slackSvc.BuildDigestBlocks(payload, labels, filter)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post digest", goerr.V("channel", channelID))
	}

	ctxlog.From(ctx).Info("Posted defect digest",
		"channel", channel,
		"ts", ts,
		"filter", filter.String(),
		"total", payload.KPIs.TotalDefects,
	)
	return nil
}
