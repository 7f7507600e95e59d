package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petcare-clinic/petcare-backend/internal/pkg/request"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/response"
	"github.com/petcare-clinic/petcare-backend/internal/workhours"
)

type Handler struct {
	service workhours.Service
}

func NewHandler(service workhours.Service) *Handler {
	return &Handler{service: service}
}

// List returns every window ordered by weekday and start time.
func (h *Handler) List(c *gin.Context) {
	var req ListWorkingHoursRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	windows, err := h.service.List(c.Request.Context(), workhours.Filter{DayOfWeek: req.DayOfWeek})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]WorkingHoursResponse, len(windows))
	for i, w := range windows {
		items[i] = NewWorkingHoursResponse(w)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	w, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWorkingHoursResponse(w))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	w, err := h.service.Create(c.Request.Context(), workhours.CreateRequest{
		DayOfWeek: *req.DayOfWeek,
		Start:     req.StartTime,
		End:       req.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewWorkingHoursResponse(w))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	w, err := h.service.Update(c.Request.Context(), uri.ID, workhours.UpdateRequest{
		DayOfWeek: body.DayOfWeek,
		Start:     body.StartTime,
		End:       body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWorkingHoursResponse(w))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
