package analytics

import (
	"errors"
	"fmt"
)

// ErrAggregate marks an aggregate that could not be computed.
var ErrAggregate = errors.New("aggregate failed")

// AggregateError reports which aggregate failed.
type AggregateError struct {
	Aggregate string
	Err       error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Aggregate, e.Err)
}

func (e *AggregateError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAggregate) match any aggregate failure.
func (e *AggregateError) Is(target error) bool { return target == ErrAggregate }
