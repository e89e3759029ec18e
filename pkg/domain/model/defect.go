package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// DefectRecord is one tracked defect as delivered by a record source.
// Severity and Status hold the raw tracker values; canonical forms are
// derived during normalization.
type DefectRecord struct {
	ID          types.DefectID     `json:"id" yaml:"id" firestore:"id"`
	Title       string             `json:"title" yaml:"title" firestore:"title"`
	Severity    types.Severity     `json:"severity" yaml:"severity" firestore:"severity"`
	Status      types.DefectStatus `json:"status" yaml:"status" firestore:"status"`
	Component   string             `json:"component,omitempty" yaml:"component,omitempty" firestore:"component,omitempty"`
	Owner       string             `json:"owner,omitempty" yaml:"owner,omitempty" firestore:"owner,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty" firestore:"description,omitempty"`
	CreatedAt   time.Time          `json:"created_at" yaml:"created_at" firestore:"created_at"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty" firestore:"resolved_at,omitempty"`
	Release     types.ReleaseTag   `json:"release" yaml:"release" firestore:"release"`
}

// timestampLayouts are tried in order by ParseTimestamp. Timestamps
// without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats produced by common defect
// trackers and exports
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, goerr.New("timestamp is empty")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, goerr.New("unsupported timestamp format", goerr.V("timestamp", s))
}

// ParseOptionalTimestamp is ParseTimestamp for nullable columns
func ParseOptionalTimestamp(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
