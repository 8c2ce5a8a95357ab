// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RawListing is one row of the source dataset before normalization.
// Every field may be empty.
type RawListing struct {
	JobID           string // dataset uniq_id
	Title           string
	Company         string
	LocationAddress string
	Skills          string
	Description     string
	EmploymentType  string
	PostedAt        string // relative text, e.g. "3 days ago"
}

// Polarity is a sentiment score in [-1, 1]. Valid is false when the text
// could not be scored (empty description or gateway failure).
type Polarity struct {
	Value float64
	Valid bool
}

// Scored builds a valid Polarity clamped to [-1, 1].
func Scored(v float64) Polarity {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return Polarity{Value: v, Valid: true}
}

// Unscored is the absent polarity.
var Unscored = Polarity{}

// Listing is a normalized record held by the listing store.
type Listing struct {
	ID              int // position among retained records, never reassigned
	JobID           string
	Title           string
	Company         string
	LocationAddress string
	Skills          string
	Description     string
	EmploymentType  string
	PostedAt        time.Time
	Week            string // ISO year-week of PostedAt
	City            string // text before the first comma of LocationAddress, trimmed
	Sentiment       Polarity
}

// WeekOf returns the ISO year-week bucket containing t, e.g. "2024-W07".
func WeekOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// CityOf extracts the city part of a location address. Addresses without a
// comma have no city.
func CityOf(address string) string {
	i := strings.IndexByte(address, ',')
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(address[:i])
}
