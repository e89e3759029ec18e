package model

import "github.com/m-mizutani/goerr/v2"

// ErrInvalidRecord is the sentinel of every rejected defect record
var ErrInvalidRecord = goerr.New("invalid defect record")

// Error tags used to classify failures at the transport boundary
var (
	ErrTagValidation = goerr.NewTag("validation")
	ErrTagNotFound   = goerr.NewTag("not_found")
	ErrTagTimeout    = goerr.NewTag("timeout")
)
