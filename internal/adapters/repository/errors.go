package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNoScorer    = errors.New("sentiment scorer is required")
	ErrBuild       = errors.New("listing store build failed")
	ErrScorerPanic = errors.New("sentiment scorer panicked")
)
