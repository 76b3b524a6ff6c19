package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// GetSignup retrieves a signup by id
func (d *DB) GetSignup(ctx context.Context, id string) (*db.Signup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.signups[id]
	if !ok {
		return nil, model.NotFoundError("signup", id)
	}
	s = cloneSignup(s)
	return &s, nil
}

// ListSignups retrieves the signups matching the filter ordered by signup date
func (d *DB) ListSignups(ctx context.Context, filter db.SignupFilter) ([]db.Signup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.signupsMatching(filter), nil
}

// CreateSignup checks the slot and inserts a confirmed signup in one step.
// The signup's id, event id, status and timestamps are filled in.
func (d *DB) CreateSignup(ctx context.Context, signup *db.Signup) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts, ok := d.timeslots[signup.TimeslotID]
	if !ok {
		return model.NotFoundError("timeslot", signup.TimeslotID)
	}
	if signup.EventID != "" && signup.EventID != ts.EventID {
		return fmt.Errorf("timeslot %s in event %s: %w", ts.ID, signup.EventID, model.ErrNotFound)
	}

	key := slotUser{timeslotID: ts.ID, userID: signup.UserID}
	if _, exists := d.confirmed[key]; exists {
		return fmt.Errorf("user %s on timeslot %s: %w", signup.UserID, ts.ID, model.ErrAlreadySignedUp)
	}
	if d.confirmedCount(ts.ID) >= ts.Capacity {
		return fmt.Errorf("timeslot %s: %w", ts.ID, model.ErrSlotFull)
	}

	now := d.now()
	if signup.ID == "" {
		signup.ID = newID()
	}
	if _, exists := d.signups[signup.ID]; exists {
		return fmt.Errorf("signup %s already exists", signup.ID)
	}
	signup.EventID = ts.EventID
	signup.Status = db.StatusConfirmed
	if signup.SignupDate.IsZero() {
		signup.SignupDate = now
	}
	signup.CreatedAt = now
	signup.UpdatedAt = now

	d.signups[signup.ID] = cloneSignup(*signup)
	d.confirmed[key] = signup.ID
	d.publishSignups(ts.EventID)
	return nil
}

// CancelSignup flips a confirmed signup to cancelled
func (d *DB) CancelSignup(ctx context.Context, id string) (*db.Signup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.signups[id]
	if !ok {
		return nil, model.NotFoundError("signup", id)
	}
	if !s.IsConfirmed() {
		return nil, fmt.Errorf("signup %s: %w", id, model.ErrSignupCancelled)
	}

	now := d.now()
	s.Status = db.StatusCancelled
	s.UpdatedAt = now
	d.signups[id] = s
	delete(d.confirmed, slotUser{timeslotID: s.TimeslotID, userID: s.UserID})

	if ts, ok := d.timeslots[s.TimeslotID]; ok && ts.TeamLeadUserID != nil && *ts.TeamLeadUserID == s.UserID {
		ts.TeamLeadUserID = nil
		ts.UpdatedAt = now
		d.timeslots[ts.ID] = ts
		d.publishTimeslots(ts.EventID)
	}
	d.publishSignups(s.EventID)

	s = cloneSignup(s)
	return &s, nil
}

// MarkAttendance records the attendance status of a signup
func (d *DB) MarkAttendance(ctx context.Context, id string, status string, markedBy string, markedAt time.Time) (*db.Signup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.signups[id]
	if !ok {
		return nil, model.NotFoundError("signup", id)
	}
	if !s.IsConfirmed() {
		return nil, fmt.Errorf("signup %s: %w", id, model.ErrSignupCancelled)
	}

	s.AttendanceStatus = &status
	s.AttendanceMarkedBy = &markedBy
	s.AttendanceMarkedAt = &markedAt
	s.UpdatedAt = d.now()
	d.signups[id] = cloneSignup(s)
	d.publishSignups(s.EventID)

	s = cloneSignup(s)
	return &s, nil
}
