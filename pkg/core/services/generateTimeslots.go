package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/generator"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// GenerateRequest describes an event window to split into shifts.
// Zero DurationMinutes or Capacity fall back to the generator defaults.
type GenerateRequest struct {
	EventID         string
	StartTime       string
	EndTime         string
	DurationMinutes int
	Capacity        int
}

// GenerateResult holds the shifts created by GenerateTimeslots
type GenerateResult struct {
	Timeslots []db.Timeslot
}

// GenerateTimeslotsStore defines the database operations needed for generating shifts
type GenerateTimeslotsStore interface {
	ListTimeslots(ctx context.Context, eventID string) ([]db.Timeslot, error)
	InsertTimeslots(ctx context.Context, timeslots []db.Timeslot) error
}

// GenerateTimeslots splits the event window into consecutive shifts and stores
// them in one batch. Numbering continues after any shifts the event already has.
func GenerateTimeslots(ctx context.Context, store GenerateTimeslotsStore, logger *zap.Logger, req GenerateRequest) (*GenerateResult, error) {
	if req.EventID == "" {
		return nil, fmt.Errorf("event id is required: %w", model.ErrInvalidTimeslot)
	}

	logger.Debug("Generating timeslots",
		zap.String("event_id", req.EventID),
		zap.String("start", req.StartTime),
		zap.String("end", req.EndTime),
		zap.Int("duration_minutes", req.DurationMinutes),
		zap.Int("capacity", req.Capacity))

	existing, err := store.ListTimeslots(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing timeslots: %w", err)
	}

	timeslots, err := generator.Plan(generator.Request{
		EventID:          req.EventID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		DurationMinutes:  req.DurationMinutes,
		Capacity:         req.Capacity,
		FirstShiftNumber: nextShiftNumber(existing),
	})
	if err != nil {
		return nil, err
	}

	if err := store.InsertTimeslots(ctx, timeslots); err != nil {
		return nil, fmt.Errorf("failed to insert timeslots: %w", err)
	}

	logger.Info("Generated timeslots",
		zap.String("event_id", req.EventID),
		zap.Int("count", len(timeslots)))

	return &GenerateResult{Timeslots: timeslots}, nil
}

// nextShiftNumber returns the number after the highest existing shift
func nextShiftNumber(existing []db.Timeslot) int {
	highest := 0
	for _, ts := range existing {
		highest = max(highest, ts.ShiftNumber)
	}
	return highest + 1
}
