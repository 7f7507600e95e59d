package workhours

import (
	"net/http"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "working hours not found")
	ErrInvalidDay   = apperror.NewField(http.StatusBadRequest, "day_of_week", "day_of_week must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidStart = apperror.NewField(http.StatusBadRequest, "start_time", "start_time must use the HH:MM format")
	ErrInvalidEnd   = apperror.NewField(http.StatusBadRequest, "end_time", "end_time must use the HH:MM format")
	ErrInvalidRange = apperror.NewField(http.StatusBadRequest, "end_time", "end_time must be after start_time")
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Window is one block of opening hours on a weekday. A day may have several.
type Window struct {
	ID        string
	DayOfWeek int // 0 = Monday
	Start     schedule.TimeOfDay
	End       schedule.TimeOfDay
	CreatedAt time.Time
}

func (w *Window) DayName() string {
	return DayName(w.DayOfWeek)
}

// Slot converts the window to the engine's representation.
func (w *Window) Slot() schedule.Window {
	return schedule.Window{Start: w.Start, End: w.End}
}

// Validate checks the day bounds and that the window is non-empty.
func (w *Window) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return ErrInvalidDay
	}
	if !w.Start.Valid() {
		return ErrInvalidStart
	}
	if !w.End.Valid() {
		return ErrInvalidEnd
	}
	if w.Start >= w.End {
		return ErrInvalidRange
	}
	return nil
}

func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayNames[day]
}

// Filter narrows a listing to one weekday when DayOfWeek is set.
type Filter struct {
	DayOfWeek *int
}
