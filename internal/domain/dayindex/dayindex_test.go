package dayindex_test

import (
	"testing"
	"time"

	dayindex "github.com/bekjonalijonov/365-kun-bot/internal/domain/dayindex"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolver(t *testing.T) {
	epoch := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a resolver anchored at 2025-01-01", t, func() {
		r := dayindex.New(epoch)

		Convey("When resolving the epoch start itself", func() {
			So(r.Day(epoch), ShouldEqual, 1)
		})

		Convey("When resolving just after midnight of the next day", func() {
			So(r.Day(time.Date(2025, time.January, 2, 0, 0, 1, 0, time.UTC)), ShouldEqual, 2)
		})

		Convey("When resolving late on the epoch day", func() {
			So(r.Day(time.Date(2025, time.January, 1, 23, 59, 59, 0, time.UTC)), ShouldEqual, 1)
		})

		Convey("When resolving exactly one cycle later", func() {
			Convey("Then the index wraps back to day 1", func() {
				So(r.Day(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, 1)
			})
		})

		Convey("When resolving one cycle plus a day later", func() {
			So(r.Day(time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC)), ShouldEqual, 2)
		})

		Convey("When resolving before the epoch", func() {
			Convey("Then the index clamps to 1", func() {
				So(r.Day(time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)), ShouldEqual, 1)
				So(r.Day(time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)), ShouldEqual, 1)
			})
		})

		Convey("When sweeping several years of timestamps", func() {
			Convey("Then every index stays in range", func() {
				for ts := epoch.Add(-30 * 24 * time.Hour); ts.Before(epoch.AddDate(3, 0, 0)); ts = ts.Add(17 * time.Hour) {
					d := r.Day(ts)
					So(d, ShouldBeGreaterThanOrEqualTo, 1)
					So(d, ShouldBeLessThanOrEqualTo, 365)
				}
			})
		})
	})

	Convey("Given a resolver with a custom cycle length", t, func() {
		r := dayindex.New(epoch, dayindex.WithCycleLength(40))

		Convey("When resolving past the shorter cycle", func() {
			So(r.CycleLength(), ShouldEqual, 40)
			So(r.Day(epoch.AddDate(0, 0, 40)), ShouldEqual, 1)
			So(r.Day(epoch.AddDate(0, 0, 41)), ShouldEqual, 2)
		})
	})

	Convey("Given an epoch timestamp with a time-of-day component", t, func() {
		r := dayindex.New(time.Date(2025, time.January, 1, 17, 45, 0, 0, time.UTC))

		Convey("Then the anchor is midnight of the epoch date", func() {
			So(r.Day(time.Date(2025, time.January, 1, 0, 30, 0, 0, time.UTC)), ShouldEqual, 1)
			So(r.Day(time.Date(2025, time.January, 2, 0, 30, 0, 0, time.UTC)), ShouldEqual, 2)
		})
	})
}
