package service

import "errors"

var (
	// ErrNotStarted is returned by queries issued before Start completes.
	ErrNotStarted = errors.New("service not started")
	// ErrNoSource is returned by Start when no dataset source is configured.
	ErrNoSource = errors.New("no dataset source configured")
)
