package http

import (
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/offering"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/request"
)

type ListServicesRequest struct {
	request.ListParams
	Name string `form:"name"`
}

// ServiceResponse renders the price as a two-decimal string.
type ServiceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           string    `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ServiceTag is the brief form embedded in appointments and slot listings.
type ServiceTag struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

func NewServiceResponse(o *offering.Offering) ServiceResponse {
	return ServiceResponse{
		ID:              o.ID,
		Name:            o.Name,
		Description:     o.Description,
		Price:           o.Price(),
		DurationMinutes: o.DurationMinutes,
		CreatedAt:       o.CreatedAt,
	}
}

func NewServiceTag(o *offering.Offering) ServiceTag {
	return ServiceTag{ID: o.ID, Name: o.Name, DurationMinutes: o.DurationMinutes}
}

type CreateServiceRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Price           string `json:"price" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Price           *string `json:"price"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1"`
}
