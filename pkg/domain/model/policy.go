package model

import "github.com/m-mizutani/goerr/v2"

// ValidationPolicy decides what happens to records that fail validation
type ValidationPolicy string

const (
	// ValidationPolicyFail aborts the whole batch on the first invalid record
	ValidationPolicyFail ValidationPolicy = "fail"
	// ValidationPolicySkip drops invalid records and reports how many were dropped
	ValidationPolicySkip ValidationPolicy = "skip"
)

// String returns the string representation
func (p ValidationPolicy) String() string {
	return string(p)
}

// Validate checks the policy is a known value
func (p ValidationPolicy) Validate() error {
	switch p {
	case ValidationPolicyFail, ValidationPolicySkip:
		return nil
	default:
		return goerr.New("invalid validation policy", goerr.V("policy", p))
	}
}
