package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Severity represents the severity of a defect
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// AllSeverities lists severities from most to least severe
var AllSeverities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is one of the canonical values
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// ParseSeverity folds a raw severity value into its canonical form.
// Matching is case-insensitive and "med" is accepted for medium.
func ParseSeverity(raw string) (Severity, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", goerr.New("severity is empty")
	}
	if v == "med" {
		return SeverityMedium, nil
	}

	s := Severity(v)
	if !s.IsValid() {
		return "", goerr.New("unknown severity", goerr.V("severity", raw))
	}
	return s, nil
}
