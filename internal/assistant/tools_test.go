package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/offering"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

type fakeSlots struct {
	now     time.Time
	slots   []time.Time
	queries []schedule.Query
}

func (f *fakeSlots) AvailableSlots(_ context.Context, q schedule.Query) ([]time.Time, error) {
	f.queries = append(f.queries, q)
	return f.slots, nil
}

func (f *fakeSlots) Now() time.Time       { return f.now }
func (f *fakeSlots) Today() schedule.Date { return schedule.DateOf(f.now) }

type fakeServices []*offering.Offering

func (f fakeServices) FindByName(_ context.Context, fragment string) (*offering.Offering, error) {
	if fragment == "" {
		return nil, offering.ErrNotFound
	}
	for _, o := range f {
		if strings.Contains(strings.ToLower(o.Name), strings.ToLower(fragment)) {
			return o, nil
		}
	}
	return nil, offering.ErrNotFound
}

func (f fakeServices) Resolve(ctx context.Context, fragment string) (*offering.Offering, error) {
	if o, err := f.FindByName(ctx, fragment); err == nil {
		return o, nil
	}
	if len(f) == 0 {
		return nil, offering.ErrNotFound
	}
	return f[0], nil
}

type fakePets struct {
	pets     []*pet.Pet
	criteria pet.SearchCriteria
}

func (f *fakePets) Search(_ context.Context, c pet.SearchCriteria) ([]*pet.Pet, error) {
	f.criteria = c
	return f.pets, nil
}

var catalog = fakeServices{
	{ID: "s1", Name: "Banho", PriceCents: 4500, DurationMinutes: 30, Description: "Banho completo"},
	{ID: "s2", Name: "Tosa", PriceCents: 6000, DurationMinutes: 60},
}

// saturdaySlots returns starts every 30 minutes from 08:00 to 19:30 on 2025-06-07.
func saturdaySlots() []time.Time {
	var out []time.Time
	sat := schedule.Date{Year: 2025, Month: time.June, Day: 7}
	for m := 8 * 60; m < 20*60; m += 30 {
		out = append(out, sat.At(schedule.TimeOfDay(m), time.UTC))
	}
	return out
}

func newTools(slots *fakeSlots, services fakeServices, pets *fakePets) *Tools {
	return NewTools(slots, services, pets, zap.NewNop())
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	slots := &fakeSlots{now: today.At(schedule.NewTimeOfDay(9, 0), time.UTC), slots: saturdaySlots()}
	tools := newTools(slots, catalog, &fakePets{})

	res, err := tools.CheckAvailability(ctx, "sábado", "tarde", "tosa")
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Equal(t, "07/06/2025", res.Date)
	assert.Equal(t, "Sábado", res.DayOfWeek)
	assert.Equal(t, "Tosa", res.Service)
	assert.Equal(t, 60, res.ServiceDurationMinutes)
	require.Len(t, res.AvailableSlots, 10, "capped at ten")
	assert.Equal(t, "12:00", res.AvailableSlots[0].Time)
	assert.Equal(t, "07/06/2025", res.AvailableSlots[0].Date)
	assert.Equal(t, 10, res.TotalSlots)

	require.Len(t, slots.queries, 1)
	assert.Equal(t, "2025-06-07", slots.queries[0].Date.String())
	assert.Equal(t, time.Hour, slots.queries[0].Duration)
}

func TestCheckAvailability_FallsBackToFirstService(t *testing.T) {
	slots := &fakeSlots{now: today.At(schedule.NewTimeOfDay(9, 0), time.UTC)}
	tools := newTools(slots, catalog, &fakePets{})

	res, err := tools.CheckAvailability(context.Background(), "tomorrow", "", "vacina")
	require.NoError(t, err)
	assert.Equal(t, "Banho", res.Service)
	assert.NotNil(t, res.AvailableSlots)
	assert.Zero(t, res.TotalSlots)
}

func TestCheckAvailability_ReportsProblemsInResult(t *testing.T) {
	slots := &fakeSlots{now: today.At(schedule.NewTimeOfDay(9, 0), time.UTC)}

	res, err := newTools(slots, catalog, &fakePets{}).CheckAvailability(context.Background(), "someday", "", "")
	require.NoError(t, err)
	assert.Contains(t, res.Error, "someday")
	assert.Empty(t, res.AvailableSlots)

	res, err = newTools(slots, fakeServices{}, &fakePets{}).CheckAvailability(context.Background(), "today", "", "")
	require.NoError(t, err)
	assert.Equal(t, "no services registered", res.Error)
	assert.Empty(t, slots.queries)
}

func TestApplySize(t *testing.T) {
	assert.Equal(t, int64(3600), ApplySize(4500, "small"))
	assert.Equal(t, int64(3600), ApplySize(4500, "Pequeno"))
	assert.Equal(t, int64(4500), ApplySize(4500, "médio"))
	assert.Equal(t, int64(5850), ApplySize(4500, "grande"))
	assert.Equal(t, int64(4500), ApplySize(4500, "huge"))
	assert.Equal(t, int64(4500), ApplySize(4500, ""))
	// 33.33 * 1.3 = 43.329 rounds to 43.33
	assert.Equal(t, int64(4333), ApplySize(3333, "large"))
}

func TestCalculatePrice(t *testing.T) {
	tools := newTools(&fakeSlots{}, catalog, &fakePets{})

	res, err := tools.CalculatePrice(context.Background(), "banho", "large")
	require.NoError(t, err)
	assert.Equal(t, "Banho", res.Service)
	assert.Equal(t, "45.00", res.BasePrice)
	assert.Equal(t, "58.50", res.FinalPrice)
	assert.Equal(t, "R$ 58.50", res.FormattedPrice)
	assert.Equal(t, "BRL", res.Currency)
	assert.Equal(t, "Banho completo", res.Notes)

	res, err = tools.CalculatePrice(context.Background(), "hotel", "")
	require.NoError(t, err)
	assert.Contains(t, res.Error, "hotel")
	assert.Empty(t, res.FinalPrice)
}

func TestSearchCustomerPets(t *testing.T) {
	birth := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	pets := &fakePets{pets: []*pet.Pet{
		{ID: "p1", Name: "Thor", Species: pet.SpeciesDog, Breed: "Golden Retriever", BirthDate: &birth, OwnerID: "u1", OwnerName: "Ana"},
	}}
	tools := newTools(&fakeSlots{now: time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)}, catalog, pets)

	res, err := tools.SearchCustomerPets(context.Background(), pet.SearchCriteria{Breed: "golden"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Thor", res.Pets[0].Name)
	require.NotNil(t, res.Pets[0].Age)
	assert.Equal(t, 5, *res.Pets[0].Age)
	assert.Equal(t, 5, pets.criteria.Limit)
}
