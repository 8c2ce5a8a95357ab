// Package timeparse converts relative posting-date text ("3 days ago") into
// absolute timestamps.
package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparsable is returned for text that carries no recognizable unit, a
// non-numeric leading magnitude, or an offset too large to resolve.
var ErrUnparsable = errors.New("unparsable relative time")

// Month is approximated as four weeks; callers rely on this exact value.
const Month = 28 * 24 * time.Hour

// Offsets beyond 999,999,999 days, or results outside years 1 through 9999,
// are unparsable.
const (
	maxDays = 999_999_999
	minYear = 1
	maxYear = 9999
)

const minutesPerDay = 24 * 60

// unit pairs a keyword with its length in minutes. Order matters: the first
// keyword found in the text wins.
type unit struct {
	keyword string
	minutes int64
}

var units = []unit{
	{"hour", 60},
	{"minute", 1},
	{"day", minutesPerDay},
	{"week", 7 * minutesPerDay},
	{"month", int64(Month / time.Minute)},
}

// Normalize resolves text relative to now. The magnitude is the first
// whitespace-delimited token of text.
func Normalize(text string, now time.Time) (time.Time, error) {
	lower := strings.ToLower(text)

	for _, u := range units {
		if !strings.Contains(lower, u.keyword) {
			continue
		}
		fields := strings.Fields(lower)
		if len(fields) == 0 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, text)
		}
		n, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %w", ErrUnparsable, text, err)
		}
		return u.before(now, n, text)
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, text)
}

// before subtracts n units from now as whole calendar days plus a remainder,
// so large magnitudes never overflow a time.Duration.
func (u unit) before(now time.Time, n int64, text string) (time.Time, error) {
	var (
		days int64
		rem  time.Duration
	)
	if u.minutes >= minutesPerDay {
		perUnit := u.minutes / minutesPerDay
		if n > maxDays/perUnit || n < -maxDays/perUnit {
			return time.Time{}, fmt.Errorf("%w: %q: offset out of range", ErrUnparsable, text)
		}
		days = n * perUnit
	} else {
		perDay := minutesPerDay / u.minutes
		days = n / perDay
		rem = time.Duration(n%perDay*u.minutes) * time.Minute
	}
	if days > maxDays || days < -maxDays {
		return time.Time{}, fmt.Errorf("%w: %q: offset out of range", ErrUnparsable, text)
	}

	t := now.AddDate(0, 0, -int(days)).Add(-rem)
	if y := t.Year(); y < minYear || y > maxYear {
		return time.Time{}, fmt.Errorf("%w: %q: year %d out of range", ErrUnparsable, text, y)
	}
	return t, nil
}
