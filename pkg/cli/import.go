package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/cli/config"
	"github.com/secmon-lab/defectlens/pkg/repository"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:      "import",
		Usage:     "Store defect records from JSON or YAML files",
		ArgsUsage: "FILE [FILE...]",
		Flags:     repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			files := c.Args().Slice()
			if len(files) == 0 {
				return goerr.New("at least one defect file is required")
			}
			if repoCfg.Backend() == "memory" {
				logger.Warn("No persistent store configured; imported records are discarded on exit")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			total := 0
			for _, path := range files {
				records, err := repository.LoadDefectsFile(path)
				if err != nil {
					return err
				}
				if err := repo.PutDefects(ctx, records); err != nil {
					return goerr.Wrap(err, "failed to import defects", goerr.V("path", path))
				}
				logger.Info("Imported defect file", "path", path, "count", len(records))
				total += len(records)
			}

			logger.Info("Import complete", "backend", repoCfg.Backend(), "files", len(files), "records", total)
			return nil
		},
	}
}
