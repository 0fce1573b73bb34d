// Package dayindex maps wall-clock time onto the repeating content cycle.
//
// The campaign starts at a configured epoch date; that date is day 1, the
// next calendar day is day 2, and after the cycle length is exhausted the
// numbering wraps back to 1 indefinitely.
package dayindex

import "time"

// DefaultCycleLength is the number of distinct content days in a cycle.
const DefaultCycleLength = 365

const msPerDay = 86_400_000

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithCycleLength overrides the cycle length.
func WithCycleLength(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.cycle = n
		}
	}
}

// Resolver computes cyclical day indices relative to an epoch start date.
// It is pure and safe for concurrent use.
type Resolver struct {
	epoch time.Time
	cycle int
}

// New creates a Resolver anchored at epochStart. Only the calendar date of
// epochStart matters; the anchor is midnight in epochStart's location.
func New(epochStart time.Time, opts ...Option) *Resolver {
	y, m, d := epochStart.Date()
	r := &Resolver{
		epoch: time.Date(y, m, d, 0, 0, 0, 0, epochStart.Location()),
		cycle: DefaultCycleLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CycleLength returns the configured cycle length.
func (r *Resolver) CycleLength() int { return r.cycle }

// Epoch returns the midnight-normalized epoch start.
func (r *Resolver) Epoch() time.Time { return r.epoch }

// Day resolves now to a day index in [1, CycleLength]. Timestamps before
// the epoch clamp to 1; timestamps past the first cycle wrap around.
// There are no error conditions.
func (r *Resolver) Day(now time.Time) int {
	diffMs := now.UnixMilli() - r.epoch.UnixMilli()
	d := int(floorDiv(diffMs, msPerDay)) + 1
	if d < 1 {
		return 1
	}
	if d > r.cycle {
		d = ((d - 1) % r.cycle) + 1
	}
	return d
}

// floorDiv divides a by b rounding toward negative infinity, matching
// day-boundary arithmetic for timestamps before the epoch.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
