package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

// DeleteResult reports what a shift deletion removed and what is left
type DeleteResult struct {
	RemovedSignups int
	Remaining      []db.Timeslot
}

// DeleteTimeslotStore defines the database operations needed for deleting a shift
type DeleteTimeslotStore interface {
	GetTimeslot(ctx context.Context, id string) (*db.Timeslot, error)
	ListTimeslots(ctx context.Context, eventID string) ([]db.Timeslot, error)
	DeleteTimeslot(ctx context.Context, id string) (int, error)
}

// DeleteTimeslot removes a shift with all of its signups. The store renumbers
// the event's remaining shifts 1..N in the same transaction.
func DeleteTimeslot(ctx context.Context, store DeleteTimeslotStore, logger *zap.Logger, id string) (*DeleteResult, error) {
	timeslot, err := store.GetTimeslot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslot: %w", err)
	}

	logger.Debug("Deleting timeslot",
		zap.String("id", id),
		zap.String("event_id", timeslot.EventID),
		zap.Int("shift_number", timeslot.ShiftNumber))

	removed, err := store.DeleteTimeslot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete timeslot: %w", err)
	}

	remaining, err := store.ListTimeslots(ctx, timeslot.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remaining timeslots: %w", err)
	}

	logger.Info("Deleted timeslot",
		zap.String("id", id),
		zap.Int("removed_signups", removed),
		zap.Int("remaining", len(remaining)))

	return &DeleteResult{RemovedSignups: removed, Remaining: remaining}, nil
}
