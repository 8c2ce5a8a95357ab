package dataset

import "errors"

var (
	// ErrLoadDataset wraps every failure to read raw listings.
	ErrLoadDataset = errors.New("load dataset")
	// ErrUnknownSource is returned for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown dataset source")
	// ErrInvalidTable rejects table names that are not plain identifiers.
	ErrInvalidTable = errors.New("invalid table name")
)
