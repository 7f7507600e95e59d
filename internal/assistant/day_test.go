package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

// Wednesday.
var today = schedule.Date{Year: 2025, Month: time.June, Day: 4}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-07-01", "2025-07-01"},
		{"today", "2025-06-04"},
		{"Hoje", "2025-06-04"},
		{"tomorrow", "2025-06-05"},
		{"amanhã", "2025-06-05"},
		{"amanha", "2025-06-05"},
		{"thursday", "2025-06-05"},
		{"sábado", "2025-06-07"},
		{"sabado", "2025-06-07"},
		{"Segunda", "2025-06-09"},
		{"segunda-feira", "2025-06-09"},
		{"domingo", "2025-06-08"},
		// Same weekday as today means next week.
		{"wednesday", "2025-06-11"},
		{"quarta-feira", "2025-06-11"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDay(tt.in, today)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}

	for _, bad := range []string{"", "someday", "2025-13-01", "next week"} {
		_, ok := ParseDay(bad, today)
		assert.False(t, ok, bad)
	}
}

func TestFilterByPeriod(t *testing.T) {
	var slots []time.Time
	for _, h := range []int{6, 8, 11, 12, 17, 18, 22, 23} {
		slots = append(slots, today.At(schedule.NewTimeOfDay(h, 30), time.UTC))
	}

	hours := func(ts []time.Time) []int {
		out := make([]int, len(ts))
		for i, t := range ts {
			out[i] = t.Hour()
		}
		return out
	}

	assert.Equal(t, []int{6, 8, 11}, hours(FilterByPeriod(slots, "morning")))
	assert.Equal(t, []int{6, 8, 11}, hours(FilterByPeriod(slots, "Manhã")))
	assert.Equal(t, []int{12, 17}, hours(FilterByPeriod(slots, "tarde")))
	assert.Equal(t, []int{18, 22}, hours(FilterByPeriod(slots, "evening")))
	assert.Len(t, FilterByPeriod(slots, ""), len(slots))
	assert.Len(t, FilterByPeriod(slots, "dawn"), len(slots))
}
