package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/offering"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

const (
	maxSlotsReturned = 10
	currency         = "BRL"
)

// SlotSource is the part of the slot engine the tools read from.
type SlotSource interface {
	AvailableSlots(ctx context.Context, q schedule.Query) ([]time.Time, error)
	Now() time.Time
	Today() schedule.Date
}

type ServiceFinder interface {
	FindByName(ctx context.Context, fragment string) (*offering.Offering, error)
	Resolve(ctx context.Context, fragment string) (*offering.Offering, error)
}

type PetSearcher interface {
	Search(ctx context.Context, criteria pet.SearchCriteria) ([]*pet.Pet, error)
}

// Tools are the lookups the scheduling assistant can run. Failures a user can
// act on are reported in the result's Error field; only infrastructure
// failures come back as Go errors.
type Tools struct {
	slots    SlotSource
	services ServiceFinder
	pets     PetSearcher
	logger   *zap.Logger
}

func NewTools(slots SlotSource, services ServiceFinder, pets PetSearcher, logger *zap.Logger) *Tools {
	return &Tools{
		slots:    slots,
		services: services,
		pets:     pets,
		logger:   logger.Named("assistant"),
	}
}

type SlotInfo struct {
	DateTime  string `json:"datetime"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
}

type AvailabilityResult struct {
	Date                   string     `json:"date,omitempty"`
	DayOfWeek              string     `json:"day_of_week,omitempty"`
	Service                string     `json:"service,omitempty"`
	ServiceDurationMinutes int        `json:"service_duration_minutes,omitempty"`
	AvailableSlots         []SlotInfo `json:"available_slots"`
	TotalSlots             int        `json:"total_slots"`
	Error                  string     `json:"error,omitempty"`
}

// CheckAvailability lists up to ten free slots for a service on a free-text
// day, optionally narrowed to morning, afternoon or evening.
func (t *Tools) CheckAvailability(ctx context.Context, day, periodName, serviceName string) (*AvailabilityResult, error) {
	t.logger.Info("check availability",
		zap.String("day", day), zap.String("period", periodName), zap.String("service", serviceName))

	date, ok := ParseDay(day, t.slots.Today())
	if !ok {
		return &AvailabilityResult{
			Error:          fmt.Sprintf("could not understand the day %q", day),
			AvailableSlots: []SlotInfo{},
		}, nil
	}

	svc, err := t.services.Resolve(ctx, serviceName)
	if errors.Is(err, offering.ErrNotFound) {
		return &AvailabilityResult{Error: "no services registered", AvailableSlots: []SlotInfo{}}, nil
	}
	if err != nil {
		return nil, err
	}

	slots, err := t.slots.AvailableSlots(ctx, schedule.Query{Date: date, Duration: svc.Duration()})
	if err != nil {
		return nil, err
	}
	slots = FilterByPeriod(slots, periodName)
	if len(slots) > maxSlotsReturned {
		slots = slots[:maxSlotsReturned]
	}

	infos := make([]SlotInfo, len(slots))
	for i, s := range slots {
		infos[i] = SlotInfo{
			DateTime:  s.Format(time.RFC3339),
			Time:      s.Format("15:04"),
			Date:      s.Format("02/01/2006"),
			DayOfWeek: DayName(schedule.DateOf(s).Weekday()),
		}
	}

	t.logger.Info("check availability done", zap.String("date", date.String()), zap.Int("slots", len(infos)))

	return &AvailabilityResult{
		Date:                   fmt.Sprintf("%02d/%02d/%04d", date.Day, int(date.Month), date.Year),
		DayOfWeek:              DayName(date.Weekday()),
		Service:                svc.Name,
		ServiceDurationMinutes: svc.DurationMinutes,
		AvailableSlots:         infos,
		TotalSlots:             len(infos),
	}, nil
}

// Size multipliers in percent of the base price.
var sizeMultipliers = map[string]int64{
	"small":   80,
	"pequeno": 80,
	"medium":  100,
	"médio":   100,
	"medio":   100,
	"large":   130,
	"grande":  130,
}

type PriceResult struct {
	Service         string `json:"service,omitempty"`
	BasePrice       string `json:"base_price,omitempty"`
	FinalPrice      string `json:"final_price,omitempty"`
	Currency        string `json:"currency,omitempty"`
	FormattedPrice  string `json:"formatted_price,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	SizeApplied     string `json:"size_applied,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ApplySize scales a price in cents by the pet-size multiplier, rounding half
// up. Unknown or empty sizes leave the price unchanged.
func ApplySize(cents int64, size string) int64 {
	pct, ok := sizeMultipliers[strings.ToLower(strings.TrimSpace(size))]
	if !ok {
		return cents
	}
	return (cents*pct + 50) / 100
}

// CalculatePrice quotes a service for a pet size.
func (t *Tools) CalculatePrice(ctx context.Context, serviceName, petSize string) (*PriceResult, error) {
	svc, err := t.services.FindByName(ctx, serviceName)
	if errors.Is(err, offering.ErrNotFound) {
		return &PriceResult{Error: fmt.Sprintf("service %q not found", serviceName)}, nil
	}
	if err != nil {
		return nil, err
	}

	final := ApplySize(svc.PriceCents, petSize)
	t.logger.Info("calculate price",
		zap.String("service", svc.Name), zap.Int64("base_cents", svc.PriceCents), zap.Int64("final_cents", final))

	return &PriceResult{
		Service:         svc.Name,
		BasePrice:       offering.FormatCents(svc.PriceCents),
		FinalPrice:      offering.FormatCents(final),
		Currency:        currency,
		FormattedPrice:  "R$ " + offering.FormatCents(final),
		DurationMinutes: svc.DurationMinutes,
		SizeApplied:     strings.TrimSpace(petSize),
		Notes:           svc.Description,
	}, nil
}

type PetInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Age       *int   `json:"age"`
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
}

type PetsResult struct {
	Pets  []PetInfo `json:"pets"`
	Total int       `json:"total"`
}

// SearchCustomerPets finds up to five pets matching the criteria.
func (t *Tools) SearchCustomerPets(ctx context.Context, criteria pet.SearchCriteria) (*PetsResult, error) {
	if criteria.Limit <= 0 {
		criteria.Limit = 5
	}

	pets, err := t.pets.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	now := t.slots.Now()
	infos := make([]PetInfo, len(pets))
	for i, p := range pets {
		infos[i] = PetInfo{
			ID:        p.ID,
			Name:      p.Name,
			Species:   string(p.Species),
			Breed:     p.Breed,
			Age:       p.AgeAt(now),
			OwnerID:   p.OwnerID,
			OwnerName: p.OwnerName,
		}
	}

	t.logger.Info("search customer pets", zap.String("owner_id", criteria.OwnerID), zap.Int("results", len(infos)))
	return &PetsResult{Pets: infos, Total: len(infos)}, nil
}
