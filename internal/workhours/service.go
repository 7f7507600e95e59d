package workhours

import (
	"context"

	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

type CreateRequest struct {
	DayOfWeek int
	Start     string
	End       string
}

type UpdateRequest struct {
	DayOfWeek *int
	Start     *string
	End       *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Window, error)
	GetByID(ctx context.Context, id string) (*Window, error)
	List(ctx context.Context, filter Filter) ([]*Window, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Window, error)
	Delete(ctx context.Context, id string) error

	// WindowsForWeekday feeds the slot engine.
	WindowsForWeekday(ctx context.Context, weekday int) ([]schedule.Window, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func parseTime(value string, invalid error) (schedule.TimeOfDay, error) {
	t, err := schedule.ParseTimeOfDay(value)
	if err != nil {
		return 0, invalid
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Window, error) {
	start, err := parseTime(req.Start, ErrInvalidStart)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(req.End, ErrInvalidEnd)
	if err != nil {
		return nil, err
	}

	w := &Window{DayOfWeek: req.DayOfWeek, Start: start, End: end}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Window, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Window, error) {
	if filter.DayOfWeek != nil && (*filter.DayOfWeek < 0 || *filter.DayOfWeek > 6) {
		return nil, ErrInvalidDay
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Window, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		w.DayOfWeek = *req.DayOfWeek
	}
	if req.Start != nil {
		if w.Start, err = parseTime(*req.Start, ErrInvalidStart); err != nil {
			return nil, err
		}
	}
	if req.End != nil {
		if w.End, err = parseTime(*req.End, ErrInvalidEnd); err != nil {
			return nil, err
		}
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) WindowsForWeekday(ctx context.Context, weekday int) ([]schedule.Window, error) {
	rows, err := s.repo.List(ctx, Filter{DayOfWeek: &weekday})
	if err != nil {
		return nil, err
	}

	windows := make([]schedule.Window, 0, len(rows))
	for _, w := range rows {
		windows = append(windows, w.Slot())
	}
	return windows, nil
}
