package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Repository selects the record store. Firestore wins over SQLite; with
// neither configured records live in memory.
type Repository struct {
	ProjectID  string
	DatabaseID string
	DBPath     string
	InputFile  string
}

// Flags returns CLI flags for Repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Storage",
			Sources:     cli.EnvVars("DEFECTLENS_FIRESTORE_PROJECT"),
			Destination: &r.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Storage",
			Value:       "(default)",
			Sources:     cli.EnvVars("DEFECTLENS_FIRESTORE_DATABASE"),
			Destination: &r.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "SQLite database file",
			Category:    "Storage",
			Sources:     cli.EnvVars("DEFECTLENS_DB_PATH"),
			Destination: &r.DBPath,
		},
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "JSON or YAML defect file loaded into the store at startup",
			Category:    "Storage",
			Sources:     cli.EnvVars("DEFECTLENS_INPUT"),
			Destination: &r.InputFile,
		},
	}
}

// Backend names the store Configure will open
func (r *Repository) Backend() string {
	switch {
	case r.ProjectID != "":
		return "firestore"
	case r.DBPath != "":
		return "sqlite"
	default:
		return "memory"
	}
}

// Configure opens the selected repository and preloads the input file
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	var (
		repo interfaces.Repository
		err  error
	)
	switch r.Backend() {
	case "firestore":
		repo, err = repository.NewFirestore(ctx, r.ProjectID, r.DatabaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore",
				goerr.V("project", r.ProjectID),
				goerr.V("database", r.DatabaseID),
			)
		}
	case "sqlite":
		repo, err = repository.NewSQLite(ctx, r.DBPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init sqlite", goerr.V("path", r.DBPath))
		}
	default:
		if r.InputFile == "" {
			logger.Warn("Using memory database with no input file. Analytics will be empty")
		}
		repo = repository.NewMemory()
	}

	if r.InputFile != "" {
		records, err := repository.LoadDefectsFile(r.InputFile)
		if err != nil {
			_ = repo.Close()
			return nil, err
		}
		if err := repo.PutDefects(ctx, records); err != nil {
			_ = repo.Close()
			return nil, goerr.Wrap(err, "failed to store input records", goerr.V("path", r.InputFile))
		}
		logger.Info("Loaded defect records", "path", r.InputFile, "count", len(records))
	}

	return repo, nil
}

// LogValue returns structured log value
func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.Backend()),
		slog.String("firestore_project", r.ProjectID),
		slog.String("firestore_database", r.DatabaseID),
		slog.String("db_path", r.DBPath),
		slog.String("input", r.InputFile),
	)
}
