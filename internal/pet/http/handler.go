package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/request"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/response"
)

type Handler struct {
	service pet.Service
}

func NewHandler(service pet.Service) *Handler {
	return &Handler{service: service}
}

// List returns the caller's pets; staff see every pet and may filter by owner.
func (h *Handler) List(c *gin.Context) {
	var req ListPetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	filter := pet.Filter{
		OwnerID:  req.OwnerID,
		Name:     req.Name,
		Breed:    req.Breed,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Species != "" {
		sp, ok := pet.ParseSpecies(req.Species)
		if !ok {
			response.Error(c, pet.ErrInvalidSpecies)
			return
		}
		filter.Species = sp
	}

	pets, total, err := h.service.List(c.Request.Context(), auth.GetPrincipal(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := time.Now()
	items := make([]PetResponse, len(pets))
	for i, p := range pets {
		items[i] = NewPetResponse(p, now)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.ListParams, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	p, err := h.service.Get(c.Request.Context(), auth.GetPrincipal(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPetResponse(p, time.Now()))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		response.BadRequest(c, "birth_date must use the YYYY-MM-DD format", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), auth.GetPrincipal(c), pet.CreateRequest{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: birth,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPetResponse(p, time.Now()))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdatePetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid body", err)
		return
	}

	birth, err := parseBirthDate(body.BirthDate)
	if err != nil {
		response.BadRequest(c, "birth_date must use the YYYY-MM-DD format", err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), auth.GetPrincipal(c), uri.ID, pet.UpdateRequest{
		Name:      body.Name,
		Species:   body.Species,
		Breed:     body.Breed,
		BirthDate: birth,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPetResponse(p, time.Now()))
}

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
