package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/defectlens/pkg/cli/config"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

type analyzeResult struct {
	*model.AnalyticsPayload
	Labels *model.Labels `json:"labels,omitempty"`
}

func cmdAnalyze() *cli.Command {
	var (
		repoCfg      config.Repository
		analyticsCfg config.Analytics
		filter       filterArgs
		output       string
		withLabels   bool
	)

	flags := joinFlags(
		repoCfg.Flags(),
		analyticsCfg.Flags(),
		filter.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the payload to this file instead of stdout",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "labels",
				Usage:       "Include quality and release labels",
				Destination: &withLabels,
			},
		},
	)

	return &cli.Command{
		Name:  "analyze",
		Usage: "Compute analytics once and print the payload as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Debug("Running analysis",
				slog.Any("repository", repoCfg),
				slog.Any("analytics", analyticsCfg),
			)

			defectFilter, err := filter.Filter()
			if err != nil {
				return err
			}

			repo, uc, err := newAnalyticsUseCase(ctx, &repoCfg, &analyticsCfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			payload, err := uc.ComputeAnalytics(ctx, defectFilter)
			if err != nil {
				return err
			}

			result := analyzeResult{AnalyticsPayload: payload}
			if withLabels {
				result.Labels = uc.Classify(payload)
			}
			return writeJSON(output, result)
		},
	}
}
