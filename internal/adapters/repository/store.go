// Package repository holds the immutable, in-memory listing store.
package repository

import "github.com/okian/jobscope/internal/domain/model"

// Reader is the read-only view both query pipelines consume.
type Reader interface {
	// All returns listings in ingestion order. Callers must not modify the slice.
	All() []model.Listing

	// Len returns the number of listings held.
	Len() int
}
