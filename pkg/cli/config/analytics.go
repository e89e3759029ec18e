package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/analytics"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Analytics holds the aggregation settings
type Analytics struct {
	ValidationPolicy   string
	RecurrenceLimit    int
	ClassificationFile string
}

// Flags returns CLI flags for Analytics configuration
func (a *Analytics) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "validation-policy",
			Usage:       "What to do with records missing identity fields (fail, skip)",
			Category:    "Analytics",
			Value:       string(model.ValidationPolicyFail),
			Sources:     cli.EnvVars("DEFECTLENS_VALIDATION_POLICY"),
			Destination: &a.ValidationPolicy,
		},
		&cli.IntFlag{
			Name:        "recurrence-limit",
			Usage:       "Number of recurring titles to report (1-10)",
			Category:    "Analytics",
			Value:       analytics.DefaultRecurrenceLimit,
			Sources:     cli.EnvVars("DEFECTLENS_RECURRENCE_LIMIT"),
			Destination: &a.RecurrenceLimit,
		},
		&cli.StringFlag{
			Name:        "classification-file",
			Usage:       "YAML file with quality and release label bands",
			Category:    "Analytics",
			Sources:     cli.EnvVars("DEFECTLENS_CLASSIFICATION_FILE"),
			Destination: &a.ClassificationFile,
		},
	}
}

// Configure builds the engine and the classification
func (a *Analytics) Configure() (*analytics.Engine, *model.Classification, error) {
	policy := model.ValidationPolicy(a.ValidationPolicy)
	if err := policy.Validate(); err != nil {
		return nil, nil, err
	}
	if a.RecurrenceLimit < 1 || a.RecurrenceLimit > analytics.MaxRecurrenceLimit {
		return nil, nil, goerr.New("recurrence limit out of range",
			goerr.V("limit", a.RecurrenceLimit),
			goerr.V("max", analytics.MaxRecurrenceLimit))
	}

	classification := model.DefaultClassification()
	if a.ClassificationFile != "" {
		loaded, err := LoadClassificationFromFile(a.ClassificationFile)
		if err != nil {
			return nil, nil, err
		}
		classification = loaded
	}

	engine := analytics.New(
		analytics.WithValidationPolicy(policy),
		analytics.WithRecurrenceLimit(a.RecurrenceLimit),
	)
	return engine, classification, nil
}

// LogValue returns structured log value
func (a Analytics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("validation_policy", a.ValidationPolicy),
		slog.Int("recurrence_limit", a.RecurrenceLimit),
		slog.String("classification_file", a.ClassificationFile),
	)
}

// LoadClassificationFromFile loads label bands from a YAML file. Bands
// missing from the file keep their defaults.
func LoadClassificationFromFile(path string) (*model.Classification, error) {
	if path == "" {
		return nil, goerr.New("classification file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "classification file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read classification file",
			goerr.V("path", path))
	}

	classification := model.DefaultClassification()
	if err := yaml.Unmarshal(data, classification); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML classification",
			goerr.V("path", path))
	}

	if err := classification.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid classification",
			goerr.V("path", path))
	}

	return classification, nil
}
