package search

import "errors"

// ErrInvalidArgument reports caller input the pipeline refuses to guess at.
var ErrInvalidArgument = errors.New("invalid argument")
