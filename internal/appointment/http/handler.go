package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petcare-clinic/petcare-backend/internal/appointment"
	"github.com/petcare-clinic/petcare-backend/internal/auth"
	offeringHttp "github.com/petcare-clinic/petcare-backend/internal/offering/http"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/request"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/response"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

type Handler struct {
	service appointment.Service
	loc     *time.Location
}

// NewHandler renders times in loc, the clinic time zone.
func NewHandler(service appointment.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

// AvailableSlots lists the free start times for a service on a date.
func (h *Handler) AvailableSlots(c *gin.Context) {
	var req AvailableSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "parameters 'date' and 'service_id' are required", err)
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date format, use YYYY-MM-DD", err)
		return
	}

	svc, slots, err := h.service.AvailableSlots(c.Request.Context(), date, req.ServiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	formatted := make([]string, len(slots))
	for i, s := range slots {
		formatted[i] = s.In(h.loc).Format("15:04")
	}

	c.JSON(http.StatusOK, AvailableSlotsResponse{
		Date:    date.String(),
		Service: offeringHttp.NewServiceTag(svc),
		Slots:   formatted,
	})
}

func (h *Handler) List(c *gin.Context) {
	var req ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	filter := appointment.Filter{
		PetID:     req.PetID,
		ServiceID: req.ServiceID,
		Status:    appointment.Status(req.Status),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.From != "" {
		d, _ := schedule.ParseDate(req.From)
		from := d.Midnight(h.loc)
		filter.From = &from
	}
	if req.To != "" {
		d, _ := schedule.ParseDate(req.To)
		to := d.AddDays(1).Midnight(h.loc)
		filter.To = &to
	}

	items, total, err := h.service.List(c.Request.Context(), auth.GetPrincipal(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]AppointmentResponse, len(items))
	for i, a := range items {
		resp[i] = NewAppointmentResponse(a, h.loc)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(resp, req.ListParams, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	a, err := h.service.Get(c.Request.Context(), auth.GetPrincipal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(a, h.loc))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAppointmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	date, err := schedule.ParseDate(body.Date)
	if err != nil {
		response.BadRequest(c, "invalid date format, use YYYY-MM-DD", err)
		return
	}
	tod, err := schedule.ParseTimeOfDay(body.Time)
	if err != nil {
		response.BadRequest(c, "invalid time format, use HH:MM", err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), appointment.CreateRequest{
		Requester: auth.GetPrincipal(c),
		PetID:     body.PetID,
		ServiceID: body.ServiceID,
		Date:      date,
		Time:      tod,
		Notes:     body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAppointmentResponse(a, h.loc))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := appointment.UpdateRequest{
		PetID:     body.PetID,
		ServiceID: body.ServiceID,
		Status:    body.Status,
		Notes:     body.Notes,
	}
	if body.Date != nil {
		d, err := schedule.ParseDate(*body.Date)
		if err != nil {
			response.BadRequest(c, "invalid date format, use YYYY-MM-DD", err)
			return
		}
		req.Date = &d
	}
	if body.Time != nil {
		t, err := schedule.ParseTimeOfDay(*body.Time)
		if err != nil {
			response.BadRequest(c, "invalid time format, use HH:MM", err)
			return
		}
		req.Time = &t
	}

	a, err := h.service.Update(c.Request.Context(), auth.GetPrincipal(c), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAppointmentResponse(a, h.loc))
}

// Delete destroys the appointment. Canceling is a PATCH to status CANCELED.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.GetPrincipal(c), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
