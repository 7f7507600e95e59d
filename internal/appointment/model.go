package appointment

import (
	"net/http"
	"strings"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "appointment not found")
	ErrForbidden        = apperror.New(http.StatusForbidden, "you do not have access to this appointment")
	ErrSlotUnavailable  = apperror.New(http.StatusConflict, "slot no longer available, please choose another")
	ErrScheduleInPast   = apperror.NewField(http.StatusBadRequest, "schedule_time", "cannot schedule in the past")
	ErrCompleteFuture   = apperror.NewField(http.StatusBadRequest, "status", "a future appointment cannot be marked completed")
	ErrInvalidStatus    = apperror.NewField(http.StatusBadRequest, "status", "status must be one of PENDING, CONFIRMED, COMPLETED, CANCELED")
	ErrStatusForbidden  = apperror.NewField(http.StatusForbidden, "status", "only staff can set this status, customers may only cancel")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "from must not be after to")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

// ParseStatus is case-insensitive and reports unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	ID        string
	PetID     string
	PetName   string
	OwnerID   string
	OwnerName string
	ServiceID string
	// ServiceName and DurationMinutes come from the joined service row.
	ServiceName     string
	DurationMinutes int
	ScheduleTime    time.Time
	EndTime         time.Time
	Status          Status
	Notes           string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Occupies reports whether the appointment blocks its time range.
func (a *Appointment) Occupies() bool {
	return a.Status != StatusCanceled
}

type Filter struct {
	OwnerID   string
	PetID     string
	ServiceID string
	Status    Status
	From      *time.Time // schedule_time >= From
	To        *time.Time // schedule_time < To
	Page      int
	PageSize  int
}
