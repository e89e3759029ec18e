package analytics

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// Inconsistency names a violated timestamp invariant of a record
type Inconsistency string

const (
	// InconsistencyResolvedNotClosed means resolved_at is set on a record that is not closed
	InconsistencyResolvedNotClosed Inconsistency = "resolved_not_closed"
	// InconsistencyClosedUnresolved means a closed record has no resolved_at
	InconsistencyClosedUnresolved Inconsistency = "closed_unresolved"
	// InconsistencyResolvedBeforeCreated means resolved_at precedes created_at
	InconsistencyResolvedBeforeCreated Inconsistency = "resolved_before_created"
)

// ownerPlaceholders are owner values trackers use instead of leaving the field empty
var ownerPlaceholders = map[string]struct{}{
	"unassigned": {},
}

// NormalizedRecord is a validated record with its derived flags. The
// aggregators only read it.
type NormalizedRecord struct {
	ID        types.DefectID
	TitleKey  string
	Severity  types.Severity
	Status    types.DefectStatus
	Component string
	Release   types.ReleaseTag
	Month     types.Month

	IsOpen               bool
	IsMissingComponent   bool
	IsMissingOwner       bool
	IsMissingDescription bool

	// ResolutionDays is only meaningful when HasResolution is true
	ResolutionDays float64
	HasResolution  bool

	Inconsistencies []Inconsistency
}

// IsInconsistent reports whether any timestamp invariant is violated
func (r NormalizedRecord) IsInconsistent() bool {
	return len(r.Inconsistencies) > 0
}

// RecordError describes a record rejected for missing or invalid identity fields
type RecordError struct {
	Index  int
	ID     types.DefectID
	Fields []string
	err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (id=%q) rejected: invalid %s", e.Index, e.ID, strings.Join(e.Fields, ", "))
}

func (e *RecordError) Unwrap() error {
	return e.err
}

// TitleKey returns the grouping key of a title: trimmed and lower-cased.
// Titles that differ in anything else ("NPE" vs "NullPointerException")
// stay in separate groups.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// MonthOf returns the UTC calendar month bucket of a record
func MonthOf(r *model.DefectRecord) types.Month {
	return types.Month(r.CreatedAt.UTC().Format("2006-01"))
}

// Normalize validates every record and derives its flags. Invalid records
// are returned as errors in input order; the caller decides whether they
// abort the batch. Records with missing optional fields are always kept.
func Normalize(records []*model.DefectRecord) ([]NormalizedRecord, []*RecordError) {
	normalized := make([]NormalizedRecord, 0, len(records))
	var rejected []*RecordError

	for i, r := range records {
		n, err := NormalizeRecord(i, r)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		normalized = append(normalized, n)
	}

	return normalized, rejected
}

// NormalizeRecord validates one record and derives its flags
func NormalizeRecord(index int, r *model.DefectRecord) (NormalizedRecord, *RecordError) {
	if r == nil {
		return NormalizedRecord{}, newRecordError(index, "", []string{"record"})
	}

	var invalid []string
	if strings.TrimSpace(r.Title) == "" {
		invalid = append(invalid, "title")
	}
	severity, err := types.ParseSeverity(r.Severity.String())
	if err != nil {
		invalid = append(invalid, "severity")
	}
	status, err := types.ParseDefectStatus(r.Status.String())
	if err != nil {
		invalid = append(invalid, "status")
	}
	if r.CreatedAt.IsZero() {
		invalid = append(invalid, "created_at")
	}
	release := strings.TrimSpace(r.Release.String())
	if release == "" {
		invalid = append(invalid, "release")
	}
	if len(invalid) > 0 {
		return NormalizedRecord{}, newRecordError(index, r.ID, invalid)
	}

	owner := strings.ToLower(strings.TrimSpace(r.Owner))
	_, placeholder := ownerPlaceholders[owner]

	n := NormalizedRecord{
		ID:                   r.ID,
		TitleKey:             TitleKey(r.Title),
		Severity:             severity,
		Status:               status,
		Component:            strings.TrimSpace(r.Component),
		Release:              types.ReleaseTag(release),
		Month:                MonthOf(r),
		IsOpen:               status.IsOpen(),
		IsMissingOwner:       owner == "" || placeholder,
		IsMissingDescription: strings.TrimSpace(r.Description) == "",
	}
	n.IsMissingComponent = n.Component == ""

	switch {
	case r.ResolvedAt != nil && status != types.DefectStatusClosed:
		n.Inconsistencies = append(n.Inconsistencies, InconsistencyResolvedNotClosed)
	case r.ResolvedAt == nil && status == types.DefectStatusClosed:
		n.Inconsistencies = append(n.Inconsistencies, InconsistencyClosedUnresolved)
	}
	if r.ResolvedAt != nil && r.ResolvedAt.Before(r.CreatedAt) {
		n.Inconsistencies = append(n.Inconsistencies, InconsistencyResolvedBeforeCreated)
	}

	if status == types.DefectStatusClosed && r.ResolvedAt != nil && !n.IsInconsistent() {
		n.ResolutionDays = r.ResolvedAt.Sub(r.CreatedAt).Hours() / 24
		n.HasResolution = true
	}

	return n, nil
}

func newRecordError(index int, id types.DefectID, fields []string) *RecordError {
	return &RecordError{
		Index:  index,
		ID:     id,
		Fields: fields,
		err: goerr.Wrap(model.ErrInvalidRecord, "missing or invalid required field",
			goerr.V("index", index),
			goerr.V("id", id),
			goerr.V("fields", fields),
			goerr.T(model.ErrTagValidation)),
	}
}
