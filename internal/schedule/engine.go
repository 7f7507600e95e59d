package schedule

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
)

var ErrInvalidDuration = apperror.NewField(http.StatusBadRequest, "duration_minutes", "service duration must be positive")

// WindowSource returns the working-hours windows configured for a weekday (0 = Monday).
type WindowSource interface {
	WindowsForWeekday(ctx context.Context, weekday int) ([]Window, error)
}

// OccupancySource returns the occupied intervals of non-canceled appointments
// that start within [from, to). excludeID, when set, leaves that appointment out.
type OccupancySource interface {
	OccupiedIntervals(ctx context.Context, from, to time.Time, excludeID string) ([]Interval, error)
}

// Query asks for the free start times of a service on a date.
type Query struct {
	Date     Date
	Duration time.Duration
	// ExcludeAppointmentID ignores one booking, used when moving it.
	ExcludeAppointmentID string
}

// Engine computes bookable slots from persisted working hours and appointments.
// It never writes and holds no cache; every call reads current state.
type Engine struct {
	windows   WindowSource
	occupancy OccupancySource
	clock     Clock
	policy    Policy
}

func NewEngine(windows WindowSource, occupancy OccupancySource, clock Clock, policy Policy) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		windows:   windows,
		occupancy: occupancy,
		clock:     clock,
		policy:    policy,
	}
}

// Now returns the current instant in the clinic time zone.
func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.policy.location())
}

// Location returns the clinic time zone.
func (e *Engine) Location() *time.Location {
	return e.policy.location()
}

// Today returns the current calendar date in the clinic time zone.
func (e *Engine) Today() Date {
	return DateOf(e.Now())
}

// AvailableSlots returns the ordered start instants for q. An empty result means
// no availability and is not an error.
func (e *Engine) AvailableSlots(ctx context.Context, q Query) ([]time.Time, error) {
	if q.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	now := e.Now()
	if q.Date.Before(DateOf(now)) {
		return []time.Time{}, nil
	}

	windows, err := e.windows.WindowsForWeekday(ctx, q.Date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	if len(windows) == 0 {
		return []time.Time{}, nil
	}

	loc := e.policy.location()
	from := q.Date.Midnight(loc)
	to := q.Date.AddDays(1).Midnight(loc)

	occupied, err := e.occupancy.OccupiedIntervals(ctx, from, to, q.ExcludeAppointmentID)
	if err != nil {
		return nil, fmt.Errorf("load occupied intervals: %w", err)
	}

	slots := Compute(ComputeInput{
		Date:     q.Date,
		Duration: q.Duration,
		Windows:  windows,
		Occupied: occupied,
		Now:      now,
		Policy:   e.policy,
	})
	if slots == nil {
		slots = []time.Time{}
	}
	return slots, nil
}

// IsAvailable reports whether start is still one of the free slots for q.
func (e *Engine) IsAvailable(ctx context.Context, q Query, start time.Time) (bool, error) {
	slots, err := e.AvailableSlots(ctx, q)
	if err != nil {
		return false, err
	}
	return Contains(slots, start), nil
}
