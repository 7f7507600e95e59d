package http

import (
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/request"
)

const dateLayout = "2006-01-02"

type ListPetsRequest struct {
	request.ListParams
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	Name    string `form:"name"`
	Species string `form:"species"`
	Breed   string `form:"breed"`
}

type PetResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name,omitempty"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed"`
	BirthDate *string   `json:"birth_date"`
	Age       *int      `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

// PetTag is the brief form embedded in appointments.
type PetTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewPetResponse(p *pet.Pet, today time.Time) PetResponse {
	resp := PetResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		OwnerName: p.OwnerName,
		Name:      p.Name,
		Species:   string(p.Species),
		Breed:     p.Breed,
		Age:       p.AgeAt(today),
		CreatedAt: p.CreatedAt,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(dateLayout)
		resp.BirthDate = &s
	}
	return resp
}

type CreatePetRequest struct {
	OwnerID   string  `json:"owner_id" binding:"omitempty,uuid"`
	Name      string  `json:"name" binding:"required"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	BirthDate *string `json:"birth_date"`
}

type UpdatePetRequest struct {
	Name      *string `json:"name"`
	Species   *string `json:"species"`
	Breed     *string `json:"breed"`
	BirthDate *string `json:"birth_date"`
}

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
