package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS defects (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	severity    TEXT NOT NULL,
	status      TEXT NOT NULL,
	component   TEXT,
	owner       TEXT,
	description TEXT,
	created_at  TEXT NOT NULL,
	resolved_at TEXT,
	release     TEXT NOT NULL
);
`

const sqliteUpsert = `
INSERT INTO defects (id, title, severity, status, component, owner, description, created_at, resolved_at, release)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	severity = excluded.severity,
	status = excluded.status,
	component = excluded.component,
	owner = excluded.owner,
	description = excluded.description,
	created_at = excluded.created_at,
	resolved_at = excluded.resolved_at,
	release = excluded.release
`

// SQLite implements Repository interface with a local SQLite file
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens or creates the database at path and ensures the schema
func NewSQLite(ctx context.Context, path string) (interfaces.Repository, error) {
	if path == "" {
		return nil, goerr.New("sqlite path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
	}

	connStr := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create sqlite schema", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("SQLite repository initialized successfully", "path", path)

	return &SQLite{db: db, path: path}, nil
}

// PutDefects upserts records in a single transaction
func (s *SQLite) PutDefects(ctx context.Context, records []*model.DefectRecord) error {
	if err := validateForPut(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return goerr.Wrap(err, "failed to prepare upsert")
	}
	defer stmt.Close()

	for _, r := range records {
		var resolvedAt sql.NullString
		if r.ResolvedAt != nil {
			resolvedAt = sql.NullString{String: r.ResolvedAt.UTC().Format(time.RFC3339Nano), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			r.ID.String(),
			r.Title,
			r.Severity.String(),
			r.Status.String(),
			r.Component,
			r.Owner,
			r.Description,
			r.CreatedAt.UTC().Format(time.RFC3339Nano),
			resolvedAt,
			r.Release.String(),
		)
		if err != nil {
			return goerr.Wrap(err, "failed to upsert defect", goerr.V("id", r.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit defects")
	}
	return nil
}

// ListDefects returns every stored record ordered by ID
func (s *SQLite) ListDefects(ctx context.Context) ([]*model.DefectRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, severity, status, component, owner, description, created_at, resolved_at, release
		FROM defects ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query defects")
	}
	defer rows.Close()

	records := []*model.DefectRecord{}
	for rows.Next() {
		var (
			id, title, severity, status, createdAt, release string
			component, owner, description, resolvedAt        sql.NullString
		)
		if err := rows.Scan(&id, &title, &severity, &status, &component, &owner, &description, &createdAt, &resolvedAt, &release); err != nil {
			return nil, goerr.Wrap(err, "failed to scan defect row")
		}

		created, err := model.ParseTimestamp(createdAt)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid created_at in database", goerr.V("id", id))
		}
		resolved, err := model.ParseOptionalTimestamp(resolvedAt.String)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid resolved_at in database", goerr.V("id", id))
		}

		records = append(records, &model.DefectRecord{
			ID:          types.DefectID(id),
			Title:       title,
			Severity:    types.Severity(severity),
			Status:      types.DefectStatus(status),
			Component:   component.String,
			Owner:       owner.String,
			Description: description.String,
			CreatedAt:   created,
			ResolvedAt:  resolved,
			Release:     types.ReleaseTag(release),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read defect rows")
	}

	return records, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
