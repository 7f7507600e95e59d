package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petcare-clinic/petcare-backend/internal/assistant"
	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/response"
)

// ToolRunner is the tool layer the direct endpoints expose.
type ToolRunner interface {
	CheckAvailability(ctx context.Context, day, period, serviceName string) (*assistant.AvailabilityResult, error)
	CalculatePrice(ctx context.Context, serviceName, petSize string) (*assistant.PriceResult, error)
}

// Runner answers free-text scheduling requests.
type Runner interface {
	Run(ctx context.Context, requester auth.Principal, input string) (*assistant.Reply, error)
}

type Handler struct {
	tools ToolRunner
	agent Runner
}

// NewHandler builds the assistant handler. agent may be a nil *assistant.Agent,
// in which case the scheduling endpoint answers 503.
func NewHandler(tools ToolRunner, agent Runner) *Handler {
	return &Handler{tools: tools, agent: agent}
}

func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "parameter 'day' is required", err)
		return
	}

	result, err := h.tools.CheckAvailability(c.Request.Context(), req.Day, req.Period, req.Service)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Error != "" {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "parameter 'service' is required", err)
		return
	}

	result, err := h.tools.CalculatePrice(c.Request.Context(), req.Service, req.PetSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Error != "" {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Scheduling(c *gin.Context) {
	var req SchedulingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "field 'message' is required", err)
		return
	}

	if h.agent == nil {
		response.Error(c, assistant.ErrDisabled)
		return
	}

	reply, err := h.agent.Run(c.Request.Context(), auth.GetPrincipal(c), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
