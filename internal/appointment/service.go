package appointment

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/offering"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

// PetLookup returns a pet the requester may book for.
type PetLookup interface {
	Get(ctx context.Context, requester auth.Principal, id string) (*pet.Pet, error)
}

// Catalog resolves bookable services.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*offering.Offering, error)
}

type CreateRequest struct {
	Requester auth.Principal
	PetID     string
	ServiceID string
	Date      schedule.Date
	Time      schedule.TimeOfDay
	Notes     string
}

// UpdateRequest holds the fields to change. Date and Time are in the clinic
// time zone; when only one is given the other keeps its current value.
type UpdateRequest struct {
	PetID     *string
	ServiceID *string
	Date      *schedule.Date
	Time      *schedule.TimeOfDay
	Status    *string
	Notes     *string
}

type Service interface {
	// AvailableSlots lists the free start times of a service on a date.
	AvailableSlots(ctx context.Context, date schedule.Date, serviceID string) (*offering.Offering, []time.Time, error)
	Create(ctx context.Context, req CreateRequest) (*Appointment, error)
	Get(ctx context.Context, requester auth.Principal, id string) (*Appointment, error)
	List(ctx context.Context, requester auth.Principal, filter Filter) ([]*Appointment, int, error)
	Update(ctx context.Context, requester auth.Principal, id string, req UpdateRequest) (*Appointment, error)
	Delete(ctx context.Context, requester auth.Principal, id string) error
}

type service struct {
	repo    Repository
	engine  *schedule.Engine
	pets    PetLookup
	catalog Catalog
	logger  *zap.Logger
}

func NewService(repo Repository, engine *schedule.Engine, pets PetLookup, catalog Catalog, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		engine:  engine,
		pets:    pets,
		catalog: catalog,
		logger:  logger.Named("appointment"),
	}
}

func (s *service) AvailableSlots(ctx context.Context, date schedule.Date, serviceID string) (*offering.Offering, []time.Time, error) {
	svc, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}

	slots, err := s.engine.AvailableSlots(ctx, schedule.Query{Date: date, Duration: svc.Duration()})
	if err != nil {
		return nil, nil, err
	}
	return svc, slots, nil
}

// ensureAvailable recomputes the slot list and checks start is in it.
func (s *service) ensureAvailable(ctx context.Context, start time.Time, duration time.Duration, excludeID string) error {
	ok, err := s.engine.IsAvailable(ctx, schedule.Query{
		Date:                 schedule.DateOf(start.In(s.engine.Location())),
		Duration:             duration,
		ExcludeAppointmentID: excludeID,
	}, start)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotUnavailable
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	p, err := s.pets.Get(ctx, req.Requester, req.PetID)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	start := req.Date.At(req.Time, s.engine.Location())
	a, err := Prepare(nil, Proposal{
		PetID:        p.ID,
		ServiceID:    svc.ID,
		ScheduleTime: start,
		Duration:     svc.Duration(),
		Notes:        strings.TrimSpace(req.Notes),
	}, s.engine.Now())
	if err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, start, svc.Duration(), ""); err != nil {
		return nil, err
	}

	if err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		return tx.Insert(ctx, a)
	}); err != nil {
		return nil, err
	}

	a.PetName = p.Name
	a.OwnerID = p.OwnerID
	a.OwnerName = p.OwnerName
	a.ServiceName = svc.Name

	s.logger.Info("appointment created",
		zap.String("appointment_id", a.ID),
		zap.String("pet_id", a.PetID),
		zap.String("service_id", a.ServiceID),
		zap.Time("schedule_time", a.ScheduleTime),
	)
	return a, nil
}

func (s *service) authorize(requester auth.Principal, a *Appointment) error {
	if requester.IsStaff || a.OwnerID == requester.UserID {
		return nil
	}
	return ErrForbidden
}

func (s *service) Get(ctx context.Context, requester auth.Principal, id string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(requester, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) List(ctx context.Context, requester auth.Principal, filter Filter) ([]*Appointment, int, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, ErrInvalidTimeRange
	}
	if !requester.IsStaff {
		filter.OwnerID = requester.UserID
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, requester auth.Principal, id string, req UpdateRequest) (*Appointment, error) {
	var updated *Appointment

	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(requester, current); err != nil {
			return err
		}

		p := ProposalFrom(current)
		serviceName := current.ServiceName
		petName := current.PetName
		ownerID, ownerName := current.OwnerID, current.OwnerName

		if req.PetID != nil && *req.PetID != current.PetID {
			newPet, err := s.pets.Get(ctx, requester, *req.PetID)
			if err != nil {
				return err
			}
			p.PetID = newPet.ID
			petName = newPet.Name
			ownerID, ownerName = newPet.OwnerID, newPet.OwnerName
		}

		serviceChanged := false
		if req.ServiceID != nil && *req.ServiceID != current.ServiceID {
			svc, err := s.catalog.GetByID(ctx, *req.ServiceID)
			if err != nil {
				return err
			}
			p.ServiceID = svc.ID
			p.Duration = svc.Duration()
			serviceName = svc.Name
			serviceChanged = true
		}

		if req.Date != nil || req.Time != nil {
			loc := s.engine.Location()
			local := current.ScheduleTime.In(loc)
			date, tod := schedule.DateOf(local), schedule.TimeOfDayOf(local)
			if req.Date != nil {
				date = *req.Date
			}
			if req.Time != nil {
				tod = *req.Time
			}
			p.ScheduleTime = date.At(tod, loc)
		}

		if req.Status != nil {
			st, err := ParseStatus(*req.Status)
			if err != nil {
				return err
			}
			if !requester.IsStaff && st != current.Status && st != StatusCanceled {
				return ErrStatusForbidden
			}
			p.Status = st
		}

		if req.Notes != nil {
			p.Notes = strings.TrimSpace(*req.Notes)
		}

		now := s.engine.Now()
		next, err := Prepare(current, p, now)
		if err != nil {
			return err
		}

		// Past appointments are records; only upcoming ones compete for slots.
		timeChanged := !next.ScheduleTime.Equal(current.ScheduleTime)
		reactivated := !current.Occupies() && next.Occupies()
		if (timeChanged || serviceChanged || reactivated) && next.Occupies() && next.ScheduleTime.After(now) {
			if err := s.ensureAvailable(ctx, next.ScheduleTime, p.Duration, current.ID); err != nil {
				return err
			}
		}

		if err := tx.Update(ctx, next); err != nil {
			return err
		}

		next.ServiceName = serviceName
		next.PetName = petName
		next.OwnerID, next.OwnerName = ownerID, ownerName
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment updated",
		zap.String("appointment_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.Time("schedule_time", updated.ScheduleTime),
		zap.String("by", requester.UserID),
	)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, requester auth.Principal, id string) error {
	if _, err := s.Get(ctx, requester, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("appointment deleted", zap.String("appointment_id", id), zap.String("by", requester.UserID))
	return nil
}
