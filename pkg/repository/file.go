package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// fixtureDefect mirrors a tracker export row. Everything is read as text so
// messy values reach the normalizer unchanged.
type fixtureDefect struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Severity    string `json:"severity" yaml:"severity"`
	Status      string `json:"status" yaml:"status"`
	Component   string `json:"component,omitempty" yaml:"component,omitempty"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	ResolvedAt  string `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty"`
	Release     string `json:"release" yaml:"release"`
}

type fixtureDocument struct {
	Defects []fixtureDefect `yaml:"defects"`
}

// ParseDefects decodes a JSON or YAML fixture. The document is either a
// list of records or a mapping with a "defects" list. Records without an
// id get a generated one; a missing created_at is left zero for the
// normalizer to reject.
func ParseDefects(data []byte) ([]*model.DefectRecord, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, goerr.Wrap(err, "failed to parse defect fixture")
	}
	if len(root.Content) == 0 {
		return []*model.DefectRecord{}, nil
	}

	var rows []fixtureDefect
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&rows); err != nil {
			return nil, goerr.Wrap(err, "failed to decode defect list")
		}
	case yaml.MappingNode:
		var wrapped fixtureDocument
		if err := doc.Decode(&wrapped); err != nil {
			return nil, goerr.Wrap(err, "failed to decode defect document")
		}
		rows = wrapped.Defects
	default:
		return nil, goerr.New("defect fixture must be a list or a mapping with defects", goerr.V("line", doc.Line))
	}

	records := make([]*model.DefectRecord, 0, len(rows))
	for i, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid defect in fixture", goerr.V("index", i), goerr.V("id", row.ID))
		}
		records = append(records, record)
	}

	return records, nil
}

// LoadDefectsFile reads a fixture from disk
func LoadDefectsFile(path string) ([]*model.DefectRecord, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read defect file", goerr.V("path", path))
	}

	records, err := ParseDefects(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load defect file", goerr.V("path", path))
	}
	return records, nil
}

// WriteDefectsFile writes records as a fixture. Files ending in .yaml or
// .yml are written as YAML, everything else as JSON.
func WriteDefectsFile(path string, records []*model.DefectRecord) error {
	rows := make([]fixtureDefect, 0, len(records))
	for _, r := range records {
		rows = append(rows, fromRecord(r))
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(fixtureDocument{Defects: rows})
	default:
		data, err = json.MarshalIndent(rows, "", "  ")
	}
	if err != nil {
		return goerr.Wrap(err, "failed to encode defects", goerr.V("path", path))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write defect file", goerr.V("path", path))
	}
	return nil
}

func (row fixtureDefect) toRecord() (*model.DefectRecord, error) {
	record := &model.DefectRecord{
		ID:          types.DefectID(strings.TrimSpace(row.ID)),
		Title:       row.Title,
		Severity:    types.Severity(row.Severity),
		Status:      types.DefectStatus(row.Status),
		Component:   row.Component,
		Owner:       row.Owner,
		Description: row.Description,
		Release:     types.ReleaseTag(row.Release),
	}
	if record.ID == "" {
		record.ID = types.NewDefectID()
	}

	if strings.TrimSpace(row.CreatedAt) != "" {
		created, err := model.ParseTimestamp(row.CreatedAt)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid created_at")
		}
		record.CreatedAt = created
	}

	resolved, err := model.ParseOptionalTimestamp(row.ResolvedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid resolved_at")
	}
	record.ResolvedAt = resolved

	return record, nil
}

func fromRecord(r *model.DefectRecord) fixtureDefect {
	row := fixtureDefect{
		ID:          r.ID.String(),
		Title:       r.Title,
		Severity:    r.Severity.String(),
		Status:      r.Status.String(),
		Component:   r.Component,
		Owner:       r.Owner,
		Description: r.Description,
		Release:     r.Release.String(),
	}
	if !r.CreatedAt.IsZero() {
		row.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if r.ResolvedAt != nil {
		row.ResolvedAt = r.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return row
}
