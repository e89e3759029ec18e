package types

import (
	"github.com/google/uuid"
)

// DefectID represents a defect identifier
type DefectID string

// String returns the string representation
func (id DefectID) String() string {
	return string(id)
}

// NewDefectID creates a new DefectID for records imported without one
func NewDefectID() DefectID {
	return DefectID(uuid.New().String())
}

// Month is a calendar month bucket key in "YYYY-MM" form
type Month string

// String returns the string representation
func (m Month) String() string {
	return string(m)
}

// ReleaseTag is a free-form release label such as "v1.2.0"
type ReleaseTag string

// String returns the string representation
func (r ReleaseTag) String() string {
	return string(r)
}
