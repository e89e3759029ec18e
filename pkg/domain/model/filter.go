package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// DefectFilter narrows a record set before listing or analysis. Empty
// fields match everything.
type DefectFilter struct {
	Severity  types.Severity
	Status    types.DefectStatus
	Component string // case-insensitive substring
	Release   types.ReleaseTag
}

// NewDefectFilter builds a filter from raw query values. Severity and
// status are folded the same way records are.
func NewDefectFilter(severity, status, component, release string) (*DefectFilter, error) {
	f := &DefectFilter{
		Component: strings.TrimSpace(component),
		Release:   types.ReleaseTag(strings.TrimSpace(release)),
	}

	if strings.TrimSpace(severity) != "" {
		s, err := types.ParseSeverity(severity)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid severity filter", goerr.T(ErrTagValidation))
		}
		f.Severity = s
	}

	if strings.TrimSpace(status) != "" {
		s, err := types.ParseDefectStatus(status)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid status filter", goerr.T(ErrTagValidation))
		}
		f.Status = s
	}

	return f, nil
}

// IsEmpty reports whether the filter matches everything
func (f *DefectFilter) IsEmpty() bool {
	return f == nil || (f.Severity == "" && f.Status == "" && f.Component == "" && f.Release == "")
}

// Match reports whether the record passes the filter. Records whose
// severity or status cannot be parsed only pass filters that do not
// constrain that field.
func (f *DefectFilter) Match(r *DefectRecord) bool {
	return f.match(r, false)
}

func (f *DefectFilter) match(r *DefectRecord, admitUnparsed bool) bool {
	if f.IsEmpty() {
		return true
	}

	if f.Severity != "" {
		s, err := types.ParseSeverity(r.Severity.String())
		if err != nil && !admitUnparsed {
			return false
		}
		if err == nil && s != f.Severity {
			return false
		}
	}

	if f.Status != "" {
		s, err := types.ParseDefectStatus(r.Status.String())
		if err != nil && !admitUnparsed {
			return false
		}
		if err == nil && s != f.Status {
			return false
		}
	}

	if f.Component != "" {
		if r.Component == "" || !strings.Contains(strings.ToLower(r.Component), strings.ToLower(f.Component)) {
			return false
		}
	}

	if f.Release != "" && types.ReleaseTag(strings.TrimSpace(r.Release.String())) != f.Release {
		return false
	}

	return true
}

// Apply returns the records that pass the filter, keeping input order
func (f *DefectFilter) Apply(records []*DefectRecord) []*DefectRecord {
	return f.apply(records, false)
}

// Candidates is Apply for analysis input: records whose constrained
// severity or status cannot be parsed are kept so the validation policy
// decides about them.
func (f *DefectFilter) Candidates(records []*DefectRecord) []*DefectRecord {
	return f.apply(records, true)
}

func (f *DefectFilter) apply(records []*DefectRecord, admitUnparsed bool) []*DefectRecord {
	if f.IsEmpty() {
		return records
	}

	result := make([]*DefectRecord, 0, len(records))
	for _, r := range records {
		if r != nil && f.match(r, admitUnparsed) {
			result = append(result, r)
		}
	}
	return result
}

// String renders the active constraints as key=value pairs
func (f *DefectFilter) String() string {
	if f.IsEmpty() {
		return "all defects"
	}

	var parts []string
	if f.Severity != "" {
		parts = append(parts, "severity="+f.Severity.String())
	}
	if f.Status != "" {
		parts = append(parts, "status="+f.Status.String())
	}
	if f.Component != "" {
		parts = append(parts, "component="+f.Component)
	}
	if f.Release != "" {
		parts = append(parts, "release="+f.Release.String())
	}
	return strings.Join(parts, " ")
}
