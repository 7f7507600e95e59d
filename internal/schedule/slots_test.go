package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday     = Date{Year: 2026, Month: time.February, Day: 2}
	beforeThat = time.Date(2026, time.January, 29, 10, 0, 0, 0, time.UTC)
)

func at(d Date, h, m int) time.Time {
	return d.At(NewTimeOfDay(h, m), time.UTC)
}

func clock(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = TimeOfDayOf(t).String()
	}
	return out
}

func TestComputeExcludesOccupiedInterval(t *testing.T) {
	got := Compute(ComputeInput{
		Date:     monday,
		Duration: 60 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)}},
		Occupied: []Interval{{Start: at(monday, 9, 0), End: at(monday, 10, 0)}},
		Now:      beforeThat,
	})

	slots := clock(got)
	assert.Contains(t, slots, "08:00")
	assert.Contains(t, slots, "10:00")
	for _, blocked := range []string{"08:15", "08:30", "08:45", "09:00", "09:15", "09:30", "09:45"} {
		assert.NotContains(t, slots, blocked)
	}
	assert.Equal(t, []string{"08:00", "10:00", "10:15", "10:30", "10:45", "11:00"}, slots)
}

func TestComputeSameDayCutoff(t *testing.T) {
	today := Date{Year: 2026, Month: time.February, Day: 4}
	now := at(today, 9, 10)

	got := Compute(ComputeInput{
		Date:     today,
		Duration: 30 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(18, 0)}},
		Now:      now,
	})

	require.NotEmpty(t, got)
	assert.Equal(t, at(today, 9, 15), got[0])
	for _, s := range got {
		assert.False(t, s.Before(now))
	}
	assert.Equal(t, at(today, 17, 30), got[len(got)-1])
}

func TestComputeSameDayCutoffOnBoundary(t *testing.T) {
	today := Date{Year: 2026, Month: time.February, Day: 4}

	got := Compute(ComputeInput{
		Date:     today,
		Duration: 30 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(10, 0)}},
		Now:      at(today, 9, 15),
	})
	assert.Equal(t, []string{"09:15", "09:30"}, clock(got))

	got = Compute(ComputeInput{
		Date:     today,
		Duration: 30 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(10, 0)}},
		Now:      at(today, 9, 15).Add(time.Second),
	})
	assert.Equal(t, []string{"09:30"}, clock(got))
}

func TestComputeCutoffDoesNotPrecedeWindowStart(t *testing.T) {
	today := Date{Year: 2026, Month: time.February, Day: 4}

	got := Compute(ComputeInput{
		Date:     today,
		Duration: 30 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(15, 0)}},
		Now:      at(today, 9, 10),
	})
	assert.Equal(t, []string{"14:00", "14:15", "14:30"}, clock(got))
}

func TestComputeLongServiceAfterOccupiedBlock(t *testing.T) {
	got := Compute(ComputeInput{
		Date:     monday,
		Duration: 120 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)}},
		Occupied: []Interval{{Start: at(monday, 8, 0), End: at(monday, 10, 0)}},
		Now:      beforeThat,
	})

	// 09:45 would fit in the window but overlaps the 08:00-10:00 block.
	assert.Equal(t, []string{"10:00"}, clock(got))
}

func TestComputePastDateIsEmpty(t *testing.T) {
	got := Compute(ComputeInput{
		Date:     monday,
		Duration: 30 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)}},
		Now:      at(monday.AddDays(1), 0, 0),
	})
	assert.Empty(t, got)
}

func TestComputeMultipleWindowsSortedAndDeduplicated(t *testing.T) {
	got := Compute(ComputeInput{
		Date:     monday,
		Duration: 30 * time.Minute,
		Windows: []Window{
			{Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(15, 0)},
			{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(9, 0)},
			{Start: NewTimeOfDay(8, 15), End: NewTimeOfDay(9, 0)},
		},
		Now: beforeThat,
	})

	assert.Equal(t, []string{"08:00", "08:15", "08:30", "14:00", "14:15", "14:30"}, clock(got))
}

func TestComputeWindowContainmentAndNonOverlap(t *testing.T) {
	windows := []Window{
		{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)},
		{Start: NewTimeOfDay(13, 30), End: NewTimeOfDay(18, 0)},
	}
	occupied := []Interval{
		{Start: at(monday, 8, 30), End: at(monday, 9, 15)},
		{Start: at(monday, 11, 0), End: at(monday, 14, 0)},
		{Start: at(monday, 16, 45), End: at(monday, 17, 5)},
	}

	for _, minutes := range []int{15, 30, 45, 60, 90, 240} {
		d := time.Duration(minutes) * time.Minute
		got := Compute(ComputeInput{Date: monday, Duration: d, Windows: windows, Occupied: occupied, Now: beforeThat})

		for i, s := range got {
			if i > 0 {
				assert.True(t, got[i-1].Before(s), "slots must be strictly ascending")
			}

			inside := false
			for _, w := range windows {
				if !s.Before(monday.At(w.Start, time.UTC)) && !s.Add(d).After(monday.At(w.End, time.UTC)) {
					inside = true
				}
			}
			assert.True(t, inside, "slot %s (%dm) outside every window", s, minutes)

			for _, o := range occupied {
				assert.False(t, o.Overlaps(s, s.Add(d)), "slot %s (%dm) overlaps %v", s, minutes, o)
			}
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	in := ComputeInput{
		Date:     monday,
		Duration: 45 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)}},
		Occupied: []Interval{{Start: at(monday, 9, 0), End: at(monday, 9, 30)}},
		Now:      beforeThat,
	}
	assert.Equal(t, Compute(in), Compute(in))
}

func TestComputeUsesPolicyIntervalAndLocation(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	// 11:05 UTC is 08:05 in the clinic zone, same calendar day.
	now := time.Date(2026, time.February, 4, 11, 5, 0, 0, time.UTC)
	today := Date{Year: 2026, Month: time.February, Day: 4}

	got := Compute(ComputeInput{
		Date:     today,
		Duration: 30 * time.Minute,
		Windows:  []Window{{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(10, 0)}},
		Now:      now,
		Policy:   Policy{Interval: 30 * time.Minute, Location: brt},
	})

	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2026, time.February, 4, 8, 30, 0, 0, brt), got[0])
	assert.Equal(t, brt, got[0].Location())
	assert.Equal(t, time.Date(2026, time.February, 4, 9, 30, 0, 0, brt), got[2])
}

func TestComputeRejectsNonPositiveDuration(t *testing.T) {
	assert.Nil(t, Compute(ComputeInput{
		Date:    monday,
		Windows: []Window{{Start: NewTimeOfDay(8, 0), End: NewTimeOfDay(12, 0)}},
		Now:     beforeThat,
	}))
}

func TestIntervalOverlapsIsHalfOpen(t *testing.T) {
	i := Interval{Start: at(monday, 9, 0), End: at(monday, 10, 0)}

	assert.False(t, i.Overlaps(at(monday, 8, 0), at(monday, 9, 0)))
	assert.False(t, i.Overlaps(at(monday, 10, 0), at(monday, 11, 0)))
	assert.True(t, i.Overlaps(at(monday, 8, 45), at(monday, 9, 15)))
	assert.True(t, i.Overlaps(at(monday, 9, 15), at(monday, 9, 30)))
}
