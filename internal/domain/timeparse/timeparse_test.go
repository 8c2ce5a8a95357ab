package timeparse

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	Convey("Given a fixed reference time", t, func() {
		Convey("When the text names a supported unit", func() {
			cases := []struct {
				text string
				want time.Time
			}{
				{"1 hour ago", now.Add(-time.Hour)},
				{"5 hours ago", now.Add(-5 * time.Hour)},
				{"30 minutes ago", now.Add(-30 * time.Minute)},
				{"1 minute ago", now.Add(-time.Minute)},
				{"2 days ago", now.Add(-48 * time.Hour)},
				{"3 weeks ago", now.Add(-21 * 24 * time.Hour)},
				{"2 months ago", now.Add(-56 * 24 * time.Hour)},
				{"4 DAYS AGO", now.Add(-96 * time.Hour)},
				{"0 days ago", now},
			}

			Convey("Then it should subtract magnitude times unit", func() {
				for _, tc := range cases {
					got, err := Normalize(tc.text, now)
					So(err, ShouldBeNil)
					So(got.Equal(tc.want), ShouldBeTrue)
				}
			})
		})

		Convey("When the text is in months", func() {
			got, err := Normalize("1 month ago", now)

			Convey("Then a month is exactly 28 days", func() {
				So(err, ShouldBeNil)
				So(now.Sub(got), ShouldEqual, 28*24*time.Hour)
				So(Month, ShouldEqual, 28*24*time.Hour)
			})
		})

		Convey("When the magnitude is larger than a duration can hold", func() {
			cases := []struct {
				text string
				want time.Time
			}{
				{"200000 days ago", time.Date(1476, time.August, 15, 12, 0, 0, 0, time.UTC)},
				{"30000 weeks ago", time.Date(1449, time.March, 30, 12, 0, 0, 0, time.UTC)},
				{"3000000 hours ago", time.Date(1681, time.December, 18, 12, 0, 0, 0, time.UTC)},
				{"200000000 minutes ago", time.Date(1643, time.December, 9, 14, 40, 0, 0, time.UTC)},
			}

			Convey("Then it still resolves to the right calendar time in the past", func() {
				for _, tc := range cases {
					got, err := Normalize(tc.text, now)
					So(err, ShouldBeNil)
					So(got.Equal(tc.want), ShouldBeTrue)
					So(got.Before(now), ShouldBeTrue)
				}
			})
		})

		Convey("When the offset falls outside years 1 to 9999", func() {
			bad := []string{
				"1000000 days ago",
				"100000000000 hours ago",
				"-3000000 days ago",
				"2800000000 weeks ago",
				"9223372036854775807 months ago",
				"9223372036854775807 minutes ago",
				"99999999999999999999 days ago",
			}

			Convey("Then it should return ErrUnparsable", func() {
				for _, text := range bad {
					got, err := Normalize(text, now)
					So(errors.Is(err, ErrUnparsable), ShouldBeTrue)
					So(got.IsZero(), ShouldBeTrue)
				}
			})
		})

		Convey("When several unit keywords appear", func() {
			Convey("Then hour wins over day", func() {
				got, err := Normalize("3 hours and a day", now)
				So(err, ShouldBeNil)
				So(got.Equal(now.Add(-3*time.Hour)), ShouldBeTrue)
			})

			Convey("Then minute wins over week", func() {
				got, err := Normalize("10 minutes past last week", now)
				So(err, ShouldBeNil)
				So(got.Equal(now.Add(-10*time.Minute)), ShouldBeTrue)
			})
		})

		Convey("When the text cannot be parsed", func() {
			bad := []string{
				"",
				"   ",
				"yesterday",
				"just posted",
				"a few days ago",
				"two weeks ago",
				"3.5 hours ago",
				"30+ days ago",
				"5 years ago",
			}

			Convey("Then it should return ErrUnparsable", func() {
				for _, text := range bad {
					got, err := Normalize(text, now)
					So(errors.Is(err, ErrUnparsable), ShouldBeTrue)
					So(got.IsZero(), ShouldBeTrue)
				}
			})
		})

		Convey("When now is supplied by the caller", func() {
			later := now.Add(72 * time.Hour)
			a, _ := Normalize("1 day ago", now)
			b, _ := Normalize("1 day ago", later)

			Convey("Then results follow the supplied clock", func() {
				So(b.Sub(a), ShouldEqual, 72*time.Hour)
			})
		})
	})
}
