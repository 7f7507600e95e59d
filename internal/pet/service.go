package pet

import (
	"context"
	"strings"
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
)

type CreateRequest struct {
	// OwnerID is honored for staff only; customers always own what they create.
	OwnerID   string
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
}

type UpdateRequest struct {
	Name      *string
	Species   *string
	Breed     *string
	BirthDate *time.Time
}

// SearchCriteria mirrors the assistant's pet lookup: species and breed names
// in English or Portuguese, plus an inclusive age range in years.
type SearchCriteria struct {
	OwnerID string
	Species string
	Breed   string
	AgeMin  *int
	AgeMax  *int
	Limit   int
}

type Service interface {
	Create(ctx context.Context, requester auth.Principal, req CreateRequest) (*Pet, error)
	// Get returns a pet visible to the requester: its owner or staff.
	Get(ctx context.Context, requester auth.Principal, id string) (*Pet, error)
	List(ctx context.Context, requester auth.Principal, filter Filter) ([]*Pet, int, error)
	Update(ctx context.Context, requester auth.Principal, id string, req UpdateRequest) (*Pet, error)
	Delete(ctx context.Context, requester auth.Principal, id string) error
	Search(ctx context.Context, criteria SearchCriteria) ([]*Pet, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (s *service) validateBirthDate(d *time.Time) error {
	if d != nil && d.After(s.now()) {
		return ErrBirthInFuture
	}
	return nil
}

func (s *service) Create(ctx context.Context, requester auth.Principal, req CreateRequest) (*Pet, error) {
	name := normalizeName(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	species := SpeciesOther
	if req.Species != "" {
		sp, ok := ParseSpecies(req.Species)
		if !ok {
			return nil, ErrInvalidSpecies
		}
		species = sp
	}
	if err := s.validateBirthDate(req.BirthDate); err != nil {
		return nil, err
	}

	owner := requester.UserID
	if requester.IsStaff && req.OwnerID != "" {
		owner = req.OwnerID
	}

	p := &Pet{
		OwnerID:   owner,
		Name:      name,
		Species:   species,
		Breed:     strings.TrimSpace(req.Breed),
		BirthDate: req.BirthDate,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, requester auth.Principal, id string) (*Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsStaff && p.OwnerID != requester.UserID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) List(ctx context.Context, requester auth.Principal, filter Filter) ([]*Pet, int, error) {
	if !requester.IsStaff {
		filter.OwnerID = requester.UserID
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, requester auth.Principal, id string, req UpdateRequest) (*Pet, error) {
	p, err := s.Get(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := normalizeName(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		p.Name = name
	}
	if req.Species != nil {
		sp, ok := ParseSpecies(*req.Species)
		if !ok {
			return nil, ErrInvalidSpecies
		}
		p.Species = sp
	}
	if req.Breed != nil {
		p.Breed = strings.TrimSpace(*req.Breed)
	}
	if req.BirthDate != nil {
		if err := s.validateBirthDate(req.BirthDate); err != nil {
			return nil, err
		}
		p.BirthDate = req.BirthDate
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, requester auth.Principal, id string) error {
	if _, err := s.Get(ctx, requester, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Search converts the age range into birth-date bounds relative to today.
// An unknown species name is ignored rather than rejected.
func (s *service) Search(ctx context.Context, criteria SearchCriteria) ([]*Pet, error) {
	filter := Filter{
		OwnerID:  criteria.OwnerID,
		Breed:    strings.TrimSpace(criteria.Breed),
		Page:     1,
		PageSize: criteria.Limit,
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 5
	}
	if sp, ok := ParseSpecies(criteria.Species); ok {
		filter.Species = sp
	}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if criteria.AgeMin != nil {
		bound := today.AddDate(-*criteria.AgeMin, 0, 0)
		filter.BornOnOrBefore = &bound
	}
	if criteria.AgeMax != nil {
		bound := today.AddDate(-(*criteria.AgeMax + 1), 0, 0)
		filter.BornAfter = &bound
	}

	pets, _, err := s.repo.List(ctx, filter)
	return pets, err
}
