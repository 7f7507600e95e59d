package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/offering"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/schedule"
)

type fakeRepo struct {
	items            map[string]*Appointment
	seq              int
	conflictOnInsert bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*Appointment{}}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range f.items {
		if filter.OwnerID != "" && a.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) OccupiedIntervals(_ context.Context, from, to time.Time, excludeID string) ([]schedule.Interval, error) {
	var out []schedule.Interval
	for _, a := range f.items {
		if !a.Occupies() || a.ID == excludeID {
			continue
		}
		if a.ScheduleTime.Before(from) || !a.ScheduleTime.Before(to) {
			continue
		}
		out = append(out, schedule.Interval{
			Start: a.ScheduleTime,
			End:   a.ScheduleTime.Add(time.Duration(a.DurationMinutes) * time.Minute),
		})
	}
	return out, nil
}

func (f *fakeRepo) WithTx(_ context.Context, fn func(tx TxRepository) error) error {
	return fn(f)
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, id string) (*Appointment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepo) Insert(_ context.Context, a *Appointment) error {
	if f.conflictOnInsert {
		return ErrSlotUnavailable.WithErr(&pgconn.PgError{Code: "23P01"})
	}
	f.seq++
	a.ID = fmt.Sprintf("appt-%d", f.seq)
	f.items[a.ID] = a
	return nil
}

func (f *fakeRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := f.items[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

type fakeWindows map[int][]schedule.Window

func (f fakeWindows) WindowsForWeekday(_ context.Context, weekday int) ([]schedule.Window, error) {
	return f[weekday], nil
}

type fakePets map[string]*pet.Pet

func (f fakePets) Get(_ context.Context, requester auth.Principal, id string) (*pet.Pet, error) {
	p, ok := f[id]
	if !ok {
		return nil, pet.ErrNotFound
	}
	if !requester.IsStaff && p.OwnerID != requester.UserID {
		return nil, pet.ErrForbidden
	}
	return p, nil
}

type fakeCatalog map[string]*offering.Offering

func (f fakeCatalog) GetByID(_ context.Context, id string) (*offering.Offering, error) {
	o, ok := f[id]
	if !ok {
		return nil, offering.ErrNotFound
	}
	return o, nil
}

var (
	ana   = auth.Principal{UserID: "ana"}
	bruno = auth.Principal{UserID: "bruno"}
	vet   = auth.Principal{UserID: "vet", IsStaff: true}

	monday = schedule.Date{Year: 2025, Month: time.June, Day: 2}
)

func tod(h, m int) schedule.TimeOfDay { return schedule.NewTimeOfDay(h, m) }

func newTestService(t *testing.T) (*service, *fakeRepo) {
	t.Helper()

	repo := newFakeRepo()
	windows := fakeWindows{
		0: {{Start: tod(8, 0), End: tod(12, 0)}, {Start: tod(14, 0), End: tod(18, 0)}},
		1: {{Start: tod(8, 0), End: tod(12, 0)}},
	}
	engine := schedule.NewEngine(windows, repo, schedule.FixedClock{T: now}, schedule.Policy{Location: time.UTC})

	pets := fakePets{
		"rex":  {ID: "rex", OwnerID: "ana", Name: "Rex"},
		"mimi": {ID: "mimi", OwnerID: "bruno", Name: "Mimi"},
	}
	catalog := fakeCatalog{
		"bath":   {ID: "bath", Name: "Banho", DurationMinutes: 30},
		"groom":  {ID: "groom", Name: "Tosa", DurationMinutes: 60},
		"checks": {ID: "checks", Name: "Consulta", DurationMinutes: 15},
	}

	svc := NewService(repo, engine, pets, catalog, zap.NewNop()).(*service)
	return svc, repo
}

func slotStrings(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format("15:04")
	}
	return out
}

func TestService_CreateBooksFreeSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(10, 30), Notes: " nervous "})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, "nervous", a.Notes)
	assert.Equal(t, "ana", a.OwnerID)
	assert.Equal(t, "Banho", a.ServiceName)
	assert.Equal(t, time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC), a.EndTime)

	_, slots, err := svc.AvailableSlots(ctx, monday, "bath")
	require.NoError(t, err)
	got := slotStrings(slots)
	assert.NotContains(t, got, "10:15")
	assert.NotContains(t, got, "10:30")
	assert.NotContains(t, got, "10:45")
	assert.Contains(t, got, "10:00")
	assert.Contains(t, got, "11:00")
}

func TestService_CreateRejectsUnavailableStarts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "groom", Date: monday, Time: tod(10, 0)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{"overlapping booking", CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(10, 30)}, ErrSlotUnavailable},
		{"off the grid", CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(14, 5)}, ErrSlotUnavailable},
		{"past window end", CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "groom", Date: monday, Time: tod(11, 30)}, ErrSlotUnavailable},
		{"outside working hours", CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(12, 30)}, ErrSlotUnavailable},
		{"earlier today", CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(9, 0)}, ErrScheduleInPast},
		{"someone else's pet", CreateRequest{Requester: bruno, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(14, 0)}, pet.ErrForbidden},
		{"unknown service", CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "x", Date: monday, Time: tod(14, 0)}, offering.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CreateSurfacesStorageConflict(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	repo.conflictOnInsert = true

	_, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(14, 0)})
	require.ErrorIs(t, err, ErrSlotUnavailable)
	assert.True(t, IsSlotConflict(err))
}

func TestService_RescheduleIgnoresItself(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "groom", Date: monday, Time: tod(10, 0)})
	require.NoError(t, err)

	// 10:30 overlaps only the appointment being moved.
	newTime := tod(10, 30)
	moved, err := svc.Update(ctx, ana, a.ID, UpdateRequest{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC), moved.ScheduleTime)
	assert.Equal(t, time.Date(2025, 6, 2, 11, 30, 0, 0, time.UTC), moved.EndTime)

	tuesday := monday.AddDays(1)
	moved, err = svc.Update(ctx, ana, a.ID, UpdateRequest{Date: &tuesday})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC), moved.ScheduleTime)
}

func TestService_RescheduleOntoAnotherBookingFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(15, 0)})
	require.NoError(t, err)
	a, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(16, 0)})
	require.NoError(t, err)

	clash := tod(14, 45)
	_, err = svc.Update(ctx, ana, a.ID, UpdateRequest{Time: &clash})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Switching to a longer service that would run into the next booking.
	b, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(14, 30)})
	require.NoError(t, err)
	groom := "groom"
	_, err = svc.Update(ctx, ana, b.ID, UpdateRequest{ServiceID: &groom})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestService_StatusPolicy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(14, 0)})
	require.NoError(t, err)

	confirmed := "CONFIRMED"
	_, err = svc.Update(ctx, ana, a.ID, UpdateRequest{Status: &confirmed})
	assert.ErrorIs(t, err, ErrStatusForbidden)

	_, err = svc.Update(ctx, bruno, a.ID, UpdateRequest{Status: &confirmed})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, vet, a.ID, UpdateRequest{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)

	completed := "completed"
	_, err = svc.Update(ctx, vet, a.ID, UpdateRequest{Status: &completed})
	assert.ErrorIs(t, err, ErrCompleteFuture)

	bogus := "DONE"
	_, err = svc.Update(ctx, vet, a.ID, UpdateRequest{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	canceled := "CANCELED"
	updated, err = svc.Update(ctx, ana, a.ID, UpdateRequest{Status: &canceled})
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, updated.Status)

	// The canceled appointment no longer blocks its slot.
	_, slots, err := svc.AvailableSlots(ctx, monday, "bath")
	require.NoError(t, err)
	assert.Contains(t, slotStrings(slots), "14:00")

	// The row is retained.
	kept, err := svc.Get(ctx, vet, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, kept.Status)
}

func TestService_ReactivationRechecksSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(14, 0)})
	require.NoError(t, err)
	canceled, pending := "CANCELED", "PENDING"
	_, err = svc.Update(ctx, ana, a.ID, UpdateRequest{Status: &canceled})
	require.NoError(t, err)

	// Freed slot was taken in the meantime.
	b, err := svc.Create(ctx, CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(14, 0)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, vet, a.ID, UpdateRequest{Status: &pending})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = svc.Update(ctx, bruno, b.ID, UpdateRequest{Status: &canceled})
	require.NoError(t, err)
	restored, err := svc.Update(ctx, vet, a.ID, UpdateRequest{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, restored.Status)
}

func TestService_StaffCompletesPastAppointment(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	past := &Appointment{
		ID: "old", PetID: "rex", OwnerID: "ana", ServiceID: "bath", DurationMinutes: 30,
		ScheduleTime: now.Add(-2 * time.Hour), Status: StatusConfirmed,
	}
	repo.items[past.ID] = past

	completed := "COMPLETED"
	a, err := svc.Update(ctx, vet, "old", UpdateRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, now, *a.CompletedAt)

	confirmed := "CONFIRMED"
	a, err = svc.Update(ctx, vet, "old", UpdateRequest{Status: &confirmed})
	require.NoError(t, err)
	assert.Nil(t, a.CompletedAt)

	// Editing notes on a past appointment does not trip the past-time check.
	notes := "follow-up in 30 days"
	a, err = svc.Update(ctx, ana, "old", UpdateRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, a.Notes)
}

func TestService_ListAndDeleteScoping(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "bath", Date: monday, Time: tod(14, 0)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Requester: bruno, PetID: "mimi", ServiceID: "bath", Date: monday, Time: tod(15, 0)})
	require.NoError(t, err)

	mine, total, err := svc.List(ctx, ana, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, mine[0].ID)

	_, total, err = svc.List(ctx, vet, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	from, to := now.Add(time.Hour), now
	_, _, err = svc.List(ctx, vet, Filter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	assert.ErrorIs(t, svc.Delete(ctx, bruno, a.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, ana, a.ID))
	_, err = svc.Get(ctx, ana, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AvailableSlotsScenarios(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// Tuesday 08:00-12:00, 30-minute bath, an existing 60-minute groom at 09:00.
	tuesday := monday.AddDays(1)
	_, err := svc.Create(ctx, CreateRequest{Requester: ana, PetID: "rex", ServiceID: "groom", Date: tuesday, Time: tod(9, 0)})
	require.NoError(t, err)

	_, slots, err := svc.AvailableSlots(ctx, tuesday, "bath")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"08:00", "08:15", "08:30",
		"10:00", "10:15", "10:30", "10:45", "11:00", "11:15", "11:30",
	}, slotStrings(slots))

	// Sunday has no working hours.
	_, slots, err = svc.AvailableSlots(ctx, monday.AddDays(6), "bath")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, _, err = svc.AvailableSlots(ctx, tuesday, "nope")
	assert.ErrorIs(t, err, offering.ErrNotFound)
}
