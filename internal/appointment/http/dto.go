package http

import (
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/appointment"
	offeringHttp "github.com/petcare-clinic/petcare-backend/internal/offering/http"
	petHttp "github.com/petcare-clinic/petcare-backend/internal/pet/http"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/request"
	userHttp "github.com/petcare-clinic/petcare-backend/internal/user/http"
)

// ListAppointmentsRequest filters by calendar dates in the clinic time zone;
// To is inclusive.
type ListAppointmentsRequest struct {
	request.ListParams
	PetID     string `form:"pet_id" binding:"omitempty,uuid"`
	ServiceID string `form:"service_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELED"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type AppointmentResponse struct {
	ID           string                  `json:"id"`
	Pet          petHttp.PetTag          `json:"pet"`
	Owner        userHttp.UserTag        `json:"owner"`
	Service      offeringHttp.ServiceTag `json:"service"`
	Date         string                  `json:"date"`
	Time         string                  `json:"time"`
	ScheduleTime time.Time               `json:"schedule_time"`
	EndTime      time.Time               `json:"end_time"`
	Status       string                  `json:"status"`
	Notes        string                  `json:"notes"`
	CompletedAt  *time.Time              `json:"completed_at"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func NewAppointmentResponse(a *appointment.Appointment, loc *time.Location) AppointmentResponse {
	start := a.ScheduleTime.In(loc)
	return AppointmentResponse{
		ID:    a.ID,
		Pet:   petHttp.PetTag{ID: a.PetID, Name: a.PetName},
		Owner: userHttp.UserTag{ID: a.OwnerID, Name: a.OwnerName},
		Service: offeringHttp.ServiceTag{
			ID:              a.ServiceID,
			Name:            a.ServiceName,
			DurationMinutes: a.DurationMinutes,
		},
		Date:         start.Format("2006-01-02"),
		Time:         start.Format("15:04"),
		ScheduleTime: start,
		EndTime:      a.EndTime.In(loc),
		Status:       string(a.Status),
		Notes:        a.Notes,
		CompletedAt:  a.CompletedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type CreateAppointmentRequest struct {
	PetID     string `json:"pet_id" binding:"required,uuid"`
	ServiceID string `json:"service_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PetID     *string `json:"pet_id" binding:"omitempty,uuid"`
	ServiceID *string `json:"service_id" binding:"omitempty,uuid"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

type AvailableSlotsRequest struct {
	Date      string `form:"date" binding:"required"`
	ServiceID string `form:"service_id" binding:"required,uuid"`
}

type AvailableSlotsResponse struct {
	Date    string                  `json:"date"`
	Service offeringHttp.ServiceTag `json:"service"`
	Slots   []string                `json:"slots"`
}
