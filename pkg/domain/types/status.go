package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DefectStatus represents the workflow status of a defect
type DefectStatus string

const (
	DefectStatusOpen       DefectStatus = "open"
	DefectStatusInProgress DefectStatus = "in-progress"
	DefectStatusClosed     DefectStatus = "closed"
)

// String returns the string representation of the status
func (s DefectStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the canonical values
func (s DefectStatus) IsValid() bool {
	switch s {
	case DefectStatusOpen, DefectStatusInProgress, DefectStatusClosed:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the defect still needs work
func (s DefectStatus) IsOpen() bool {
	return s != DefectStatusClosed
}

// ParseDefectStatus folds a raw status value into its canonical form.
// Trackers disagree on spelling, so "In Progress", "in_progress" and
// "resolved" are accepted as well.
func ParseDefectStatus(raw string) (DefectStatus, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "":
		return "", goerr.New("status is empty")
	case "open":
		return DefectStatusOpen, nil
	case "in-progress", "in progress", "in_progress", "inprogress":
		return DefectStatusInProgress, nil
	case "closed", "resolved":
		return DefectStatusClosed, nil
	default:
		return "", goerr.New("unknown status", goerr.V("status", raw))
	}
}
