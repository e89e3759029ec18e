package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/cli/config"
	"github.com/secmon-lab/defectlens/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdNotify() *cli.Command {
	var (
		repoCfg      config.Repository
		analyticsCfg config.Analytics
		slackCfg     config.Slack
		filter       filterArgs
	)

	return &cli.Command{
		Name:  "notify",
		Usage: "Post a KPI digest to Slack",
		Flags: joinFlags(
			repoCfg.Flags(),
			analyticsCfg.Flags(),
			slackCfg.Flags(),
			filter.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Debug("Sending digest",
				slog.Any("repository", repoCfg),
				slog.Any("slack", slackCfg),
			)

			if slackCfg.Channel == "" {
				return goerr.New("slack channel is required. Please provide DEFECTLENS_SLACK_CHANNEL")
			}
			slackClient, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			defectFilter, err := filter.Filter()
			if err != nil {
				return err
			}

			repo, uc, err := newAnalyticsUseCase(ctx, &repoCfg, &analyticsCfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			digest := usecase.NewDigest(uc, slackClient)
			if err := digest.Verify(ctx); err != nil {
				return err
			}
			return digest.Publish(ctx, slackCfg.Channel, defectFilter)
		},
	}
}
