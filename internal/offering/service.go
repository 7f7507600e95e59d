package offering

import (
	"context"
	"errors"
	"strings"
)

type CreateRequest struct {
	Name            string
	Description     string
	PriceCents      int64
	DurationMinutes int
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	PriceCents      *int64
	DurationMinutes *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Offering, error)
	GetByID(ctx context.Context, id string) (*Offering, error)
	// FindByName returns the first service whose name contains fragment.
	FindByName(ctx context.Context, fragment string) (*Offering, error)
	// Resolve finds a service by a free-text name fragment, falling back to the
	// first catalog entry when the fragment is empty or matches nothing.
	Resolve(ctx context.Context, fragment string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Offering, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = DefaultDurationMinutes
	}
	if req.DurationMinutes < 0 {
		return nil, ErrInvalidDuration
	}
	if req.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}

	o := &Offering{
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) FindByName(ctx context.Context, fragment string) (*Offering, error) {
	f := strings.TrimSpace(fragment)
	if f == "" {
		return nil, ErrNotFound
	}
	return s.repo.FindByName(ctx, f)
}

func (s *service) Resolve(ctx context.Context, fragment string) (*Offering, error) {
	if f := strings.TrimSpace(fragment); f != "" {
		o, err := s.repo.FindByName(ctx, f)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return s.repo.First(ctx)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := NormalizeName(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		o.Name = name
	}
	if req.Description != nil {
		o.Description = strings.TrimSpace(*req.Description)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, ErrInvalidPrice
		}
		o.PriceCents = *req.PriceCents
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		o.DurationMinutes = *req.DurationMinutes
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
