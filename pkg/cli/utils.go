package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/cli/config"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// filterArgs holds the record filter given on the command line
type filterArgs struct {
	severity  string
	status    string
	component string
	release   string
}

func (f *filterArgs) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "severity",
			Usage:       "Only include records of this severity",
			Category:    "Filter",
			Destination: &f.severity,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Only include records in this status",
			Category:    "Filter",
			Destination: &f.status,
		},
		&cli.StringFlag{
			Name:        "component",
			Usage:       "Only include records whose component contains this text",
			Category:    "Filter",
			Destination: &f.component,
		},
		&cli.StringFlag{
			Name:        "release",
			Usage:       "Only include records of this release",
			Category:    "Filter",
			Destination: &f.release,
		},
	}
}

func (f *filterArgs) Filter() (*model.DefectFilter, error) {
	return model.NewDefectFilter(f.severity, f.status, f.component, f.release)
}

// newAnalyticsUseCase opens the repository and wires the analytics use
// case. The caller closes the returned repository.
func newAnalyticsUseCase(ctx context.Context, repoCfg *config.Repository, analyticsCfg *config.Analytics) (interfaces.Repository, *usecase.Analytics, error) {
	engine, classification, err := analyticsCfg.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid analytics configuration")
	}

	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}

	return repo, usecase.NewAnalytics(repo, engine, classification), nil
}

// writeJSON writes v as indented JSON to path, or stdout when path is empty
func writeJSON(path string, v any) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
		}
		defer f.Close()
		w = f
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write JSON", goerr.V("path", path))
	}
	return nil
}
