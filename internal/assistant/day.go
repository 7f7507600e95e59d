package assistant

import (
	"strings"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

// Weekday numbers follow schedule.Date.Weekday (0 = Monday).
var weekdayNames = map[string]int{
	"monday":        0,
	"segunda":       0,
	"segunda-feira": 0,
	"tuesday":       1,
	"terça":         1,
	"terca":         1,
	"terça-feira":   1,
	"terca-feira":   1,
	"wednesday":     2,
	"quarta":        2,
	"quarta-feira":  2,
	"thursday":      3,
	"quinta":        3,
	"quinta-feira":  3,
	"friday":        4,
	"sexta":         4,
	"sexta-feira":   4,
	"saturday":      5,
	"sábado":        5,
	"sabado":        5,
	"sunday":        6,
	"domingo":       6,
}

var displayDayNames = [7]string{
	"Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado", "Domingo",
}

// DayName returns the Portuguese display name of a weekday (0 = Monday).
func DayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return displayDayNames[weekday]
}

// ParseDay resolves a free-text day relative to today. It accepts ISO dates,
// "today"/"hoje", "tomorrow"/"amanhã", and English or Portuguese weekday names.
// A weekday name always means its next occurrence strictly after today.
func ParseDay(day string, today schedule.Date) (schedule.Date, bool) {
	s := strings.ToLower(strings.TrimSpace(day))
	if s == "" {
		return schedule.Date{}, false
	}

	if d, err := schedule.ParseDate(s); err == nil {
		return d, true
	}

	if target, ok := weekdayNames[s]; ok {
		ahead := target - today.Weekday()
		if ahead <= 0 {
			ahead += 7
		}
		return today.AddDays(ahead), true
	}

	switch s {
	case "today", "hoje":
		return today, true
	case "tomorrow", "amanhã", "amanha":
		return today.AddDays(1), true
	}
	return schedule.Date{}, false
}

type period struct {
	from, to int // hours, [from, to)
}

var periods = map[string]period{
	"morning":   {6, 12},
	"manhã":     {6, 12},
	"manha":     {6, 12},
	"afternoon": {12, 18},
	"tarde":     {12, 18},
	"evening":   {18, 23},
	"noite":     {18, 23},
}

// FilterByPeriod keeps the slots whose local hour falls in the named period.
// An empty or unknown period returns slots unchanged.
func FilterByPeriod(slots []time.Time, name string) []time.Time {
	p, ok := periods[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return slots
	}

	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if h := s.Hour(); h >= p.from && h < p.to {
			out = append(out, s)
		}
	}
	return out
}
