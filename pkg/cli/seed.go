package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/cli/config"
	"github.com/secmon-lab/defectlens/pkg/repository"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var (
		repoCfg config.Repository
		count   int
		seed    int
		days    int
		output  string
	)

	flags := joinFlags(
		repoCfg.Flags(),
		[]cli.Flag{
			&cli.IntFlag{
				Name:        "count",
				Usage:       "Number of defects to generate before duplicates",
				Value:       500,
				Destination: &count,
			},
			&cli.IntFlag{
				Name:        "seed",
				Usage:       "Random seed; the same seed yields the same dataset",
				Value:       1,
				Destination: &seed,
			},
			&cli.IntFlag{
				Name:        "days",
				Usage:       "Start the dataset this many days before today",
				Value:       180,
				Destination: &days,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the dataset to a JSON or YAML file instead of the store",
				Destination: &output,
			},
		},
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Generate a messy sample dataset",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if count <= 0 {
				return goerr.New("count must be positive", goerr.V("count", count))
			}

			start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)
			records := repository.GenerateSample(repository.SampleOptions{
				Count: count,
				Seed:  uint64(seed),
				Start: start,
			})

			if output != "" {
				if err := repository.WriteDefectsFile(output, records); err != nil {
					return err
				}
				logger.Info("Wrote sample dataset", "path", output, "records", len(records))
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.PutDefects(ctx, records); err != nil {
				return goerr.Wrap(err, "failed to store sample dataset")
			}
			logger.Info("Stored sample dataset", "backend", repoCfg.Backend(), "records", len(records))
			return nil
		},
	}
}
