package memstore

import (
	"context"
	"fmt"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// GetTimeslot retrieves a timeslot by id
func (d *DB) GetTimeslot(ctx context.Context, id string) (*db.Timeslot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts, ok := d.timeslots[id]
	if !ok {
		return nil, model.NotFoundError("timeslot", id)
	}
	ts = cloneTimeslot(ts)
	return &ts, nil
}

// ListTimeslots retrieves all timeslots of an event ordered by shift number
func (d *DB) ListTimeslots(ctx context.Context, eventID string) ([]db.Timeslot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timeslotsFor(eventID), nil
}

// InsertTimeslots inserts all timeslots or none of them.
// Missing ids and timestamps are assigned.
func (d *DB) InsertTimeslots(ctx context.Context, timeslots []db.Timeslot) error {
	if len(timeslots) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.insertTimeslotsLocked(timeslots); err != nil {
		return err
	}

	for _, eventID := range eventIDs(timeslots) {
		d.publishTimeslots(eventID)
	}
	return nil
}

// insertTimeslotsLocked validates every timeslot before writing any. Caller holds mu.
func (d *DB) insertTimeslotsLocked(timeslots []db.Timeslot) error {
	now := d.now()
	seen := make(map[string]bool, len(timeslots))
	for i := range timeslots {
		ts := &timeslots[i]
		if ts.ID == "" {
			ts.ID = newID()
		}
		if ts.EventID == "" {
			return fmt.Errorf("timeslot %d has no event id: %w", i, model.ErrInvalidTimeslot)
		}
		if _, exists := d.timeslots[ts.ID]; exists || seen[ts.ID] {
			return fmt.Errorf("timeslot %s already exists: %w", ts.ID, model.ErrInvalidTimeslot)
		}
		seen[ts.ID] = true
		if err := model.ValidateTimeslot(*ts); err != nil {
			return err
		}
		if ts.CreatedAt.IsZero() {
			ts.CreatedAt = now
		}
		if ts.UpdatedAt.IsZero() {
			ts.UpdatedAt = ts.CreatedAt
		}
	}

	for _, ts := range timeslots {
		d.timeslots[ts.ID] = cloneTimeslot(ts)
	}
	return nil
}

// UpdateTimeslot merges the patch into the timeslot. A new shift number moves
// the slot within its event and renumbers the siblings around it.
func (d *DB) UpdateTimeslot(ctx context.Context, id string, patch db.TimeslotPatch) (*db.Timeslot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts, ok := d.timeslots[id]
	if !ok {
		return nil, model.NotFoundError("timeslot", id)
	}

	if patch.StartTime != nil {
		ts.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		ts.EndTime = *patch.EndTime
	}
	if patch.Capacity != nil {
		ts.Capacity = *patch.Capacity
	}
	if err := model.ValidateTimeslot(ts); err != nil {
		return nil, err
	}

	if current := d.confirmedCount(id); ts.Capacity < current {
		return nil, fmt.Errorf("capacity %d with %d confirmed signups: %w", ts.Capacity, current, model.ErrCapacityBelowSignups)
	}

	now := d.now()
	ts.UpdatedAt = now
	if patch.ShiftNumber != nil && *patch.ShiftNumber != ts.ShiftNumber {
		reordered, err := model.MoveShift(d.timeslotsFor(ts.EventID), id, *patch.ShiftNumber)
		if err != nil {
			return nil, err
		}
		for _, sibling := range reordered {
			if sibling.ID == id {
				ts.ShiftNumber = sibling.ShiftNumber
				continue
			}
			if d.timeslots[sibling.ID].ShiftNumber != sibling.ShiftNumber {
				sibling.UpdatedAt = now
				d.timeslots[sibling.ID] = sibling
			}
		}
	}
	d.timeslots[id] = ts
	d.publishTimeslots(ts.EventID)

	ts = cloneTimeslot(ts)
	return &ts, nil
}

// DeleteTimeslot removes the timeslot with all of its signups and renumbers the remaining shifts
func (d *DB) DeleteTimeslot(ctx context.Context, id string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts, ok := d.timeslots[id]
	if !ok {
		return 0, model.NotFoundError("timeslot", id)
	}

	removed := 0
	for signupID, s := range d.signups {
		if s.TimeslotID == id {
			delete(d.signups, signupID)
			delete(d.confirmed, slotUser{timeslotID: id, userID: s.UserID})
			removed++
		}
	}
	delete(d.timeslots, id)

	now := d.now()
	for i, sibling := range d.timeslotsFor(ts.EventID) {
		if sibling.ShiftNumber != i+1 {
			sibling.ShiftNumber = i + 1
			sibling.UpdatedAt = now
			d.timeslots[sibling.ID] = sibling
		}
	}

	d.publishTimeslots(ts.EventID)
	if removed > 0 {
		d.publishSignups(ts.EventID)
	}
	return removed, nil
}

// SetTeamLead sets or clears the team lead of a timeslot
func (d *DB) SetTeamLead(ctx context.Context, id string, userID *string) (*db.Timeslot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts, ok := d.timeslots[id]
	if !ok {
		return nil, model.NotFoundError("timeslot", id)
	}

	if userID != nil {
		if _, signedUp := d.confirmed[slotUser{timeslotID: id, userID: *userID}]; !signedUp {
			return nil, fmt.Errorf("user %s on timeslot %s: %w", *userID, id, model.ErrTeamLeadNotSignedUp)
		}
	}

	ts.TeamLeadUserID = cloneString(userID)
	ts.UpdatedAt = d.now()
	d.timeslots[id] = ts
	d.publishTimeslots(ts.EventID)

	ts = cloneTimeslot(ts)
	return &ts, nil
}

func eventIDs(timeslots []db.Timeslot) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ts := range timeslots {
		if !seen[ts.EventID] {
			seen[ts.EventID] = true
			ids = append(ids, ts.EventID)
		}
	}
	return ids
}
