package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/shiftsignup/pkg/core/availability"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// EventTimeslotsStore defines the database operations needed for reading an event's shifts
type EventTimeslotsStore interface {
	ListTimeslots(ctx context.Context, eventID string) ([]db.Timeslot, error)
	ListSignups(ctx context.Context, filter db.SignupFilter) ([]db.Signup, error)
}

// ListEventTimeslots returns the event's shifts with their confirmed signups
// and availability, ordered by shift number
func ListEventTimeslots(ctx context.Context, store EventTimeslotsStore, eventID string) ([]model.TimeslotView, error) {
	timeslots, err := store.ListTimeslots(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}

	signups, err := store.ListSignups(ctx, db.SignupFilter{EventID: eventID, Status: db.StatusConfirmed})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signups: %w", err)
	}

	return availability.Merge(timeslots, signups), nil
}
