package appointment

import "time"

// Proposal is the full desired state of an appointment after a create or edit.
type Proposal struct {
	PetID        string
	ServiceID    string
	ScheduleTime time.Time
	Duration     time.Duration
	// Status defaults to PENDING for new appointments and to the persisted
	// status otherwise.
	Status Status
	Notes  string
}

// Prepare validates p against the persisted record (nil when creating) and
// returns the appointment to store. It has no side effects.
//
// A new or moved appointment cannot start before now, COMPLETED requires a
// start at or before now, and completed_at follows transitions into and out of
// COMPLETED.
func Prepare(persisted *Appointment, p Proposal, now time.Time) (*Appointment, error) {
	isNew := persisted == nil

	status := p.Status
	if status == "" {
		status = StatusPending
		if !isNew {
			status = persisted.Status
		}
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	timeChanged := !isNew && !persisted.ScheduleTime.Equal(p.ScheduleTime)
	if (isNew || timeChanged) && p.ScheduleTime.Before(now) {
		return nil, ErrScheduleInPast
	}

	if status == StatusCompleted && p.ScheduleTime.After(now) {
		return nil, ErrCompleteFuture
	}

	next := &Appointment{}
	if !isNew {
		*next = *persisted
	}
	next.PetID = p.PetID
	next.ServiceID = p.ServiceID
	next.ScheduleTime = p.ScheduleTime
	next.EndTime = p.ScheduleTime.Add(p.Duration)
	next.DurationMinutes = int(p.Duration / time.Minute)
	next.Status = status
	next.Notes = p.Notes

	wasCompleted := !isNew && persisted.CompletedAt != nil
	switch {
	case status == StatusCompleted && !wasCompleted:
		completedAt := now
		next.CompletedAt = &completedAt
	case status != StatusCompleted && wasCompleted:
		next.CompletedAt = nil
	}

	return next, nil
}

// ProposalFrom returns the proposal that would leave a unchanged.
func ProposalFrom(a *Appointment) Proposal {
	return Proposal{
		PetID:        a.PetID,
		ServiceID:    a.ServiceID,
		ScheduleTime: a.ScheduleTime,
		Duration:     time.Duration(a.DurationMinutes) * time.Minute,
		Status:       a.Status,
		Notes:        a.Notes,
	}
}
