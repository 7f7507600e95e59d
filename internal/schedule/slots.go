package schedule

import (
	"sort"
	"time"
)

// DefaultInterval is the step between candidate slot starts.
const DefaultInterval = 15 * time.Minute

// Policy holds the clinic-wide slot rules.
type Policy struct {
	// Interval between candidate start times. Zero means DefaultInterval.
	Interval time.Duration
	// Location is the clinic time zone all computations happen in. Nil means UTC.
	Location *time.Location
}

func (p Policy) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}
	return p.Interval
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Window is one working-hours range on a day.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) shares any instant with i.
func (i Interval) Overlaps(start, end time.Time) bool {
	lo := start
	if i.Start.After(lo) {
		lo = i.Start
	}
	hi := end
	if i.End.Before(hi) {
		hi = i.End
	}
	return lo.Before(hi)
}

// ComputeInput is everything Compute needs; it performs no I/O.
type ComputeInput struct {
	Date     Date
	Duration time.Duration
	Windows  []Window
	Occupied []Interval
	Now      time.Time
	Policy   Policy
}

// Compute returns the ascending, de-duplicated start instants on in.Date where a
// booking of in.Duration fits entirely inside a window and overlaps no occupied
// interval. Dates before today yield nothing; on today the walk starts at the
// first interval boundary at or after now.
func Compute(in ComputeInput) []time.Time {
	if in.Duration <= 0 || len(in.Windows) == 0 {
		return nil
	}

	loc := in.Policy.location()
	step := in.Policy.interval()
	now := in.Now.In(loc)
	today := DateOf(now)

	if in.Date.Before(today) {
		return nil
	}

	windows := make([]Window, len(in.Windows))
	copy(windows, in.Windows)
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })

	var cutoff time.Time
	sameDay := in.Date == today
	if sameDay {
		cutoff = nextBoundary(now, in.Date.Midnight(loc), step)
	}

	seen := make(map[int64]struct{})
	var slots []time.Time

	for _, w := range windows {
		start := in.Date.At(w.Start, loc)
		end := in.Date.At(w.End, loc)

		t := start
		if sameDay && t.Before(cutoff) {
			t = cutoff
		}

		for ; !t.Add(in.Duration).After(end); t = t.Add(step) {
			if overlapsAny(in.Occupied, t, t.Add(in.Duration)) {
				continue
			}
			key := t.UnixNano()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, t)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}

// nextBoundary rounds now up to the next multiple of step counted from midnight.
// A now that already sits on a boundary is returned unchanged.
func nextBoundary(now, midnight time.Time, step time.Duration) time.Time {
	elapsed := now.Sub(midnight)
	n := elapsed / step
	if elapsed%step != 0 {
		n++
	}
	return midnight.Add(n * step)
}

func overlapsAny(busy []Interval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// Contains reports whether start is one of slots.
func Contains(slots []time.Time, start time.Time) bool {
	for _, s := range slots {
		if s.Equal(start) {
			return true
		}
	}
	return false
}
