package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// CreateTimeslotRequest describes a manually added shift.
// A zero ShiftNumber places the shift after the event's existing ones; any other
// number in 1..N+1 inserts it there and shifts the later ones down.
type CreateTimeslotRequest struct {
	EventID     string
	ShiftNumber int
	StartTime   string
	EndTime     string
	Capacity    int
}

// CreateTimeslotStore is the store surface CreateTimeslot needs
type CreateTimeslotStore interface {
	GenerateTimeslotsStore
	UpdateTimeslot(ctx context.Context, id string, patch db.TimeslotPatch) (*db.Timeslot, error)
}

// CreateTimeslot adds a single shift with no team lead
func CreateTimeslot(ctx context.Context, store CreateTimeslotStore, logger *zap.Logger, req CreateTimeslotRequest) (*db.Timeslot, error) {
	if req.EventID == "" {
		return nil, fmt.Errorf("event id is required: %w", model.ErrInvalidTimeslot)
	}

	existing, err := store.ListTimeslots(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing timeslots: %w", err)
	}
	next := nextShiftNumber(existing)

	position := req.ShiftNumber
	if position == 0 {
		position = next
	}
	if position < 1 || position > next {
		return nil, fmt.Errorf("shift number %d outside 1..%d: %w", position, next, model.ErrInvalidTimeslot)
	}

	timeslot := db.Timeslot{
		EventID:     req.EventID,
		ShiftNumber: next,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}
	if err := model.ValidateTimeslot(timeslot); err != nil {
		return nil, err
	}

	batch := []db.Timeslot{timeslot}
	if err := store.InsertTimeslots(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to insert timeslot: %w", err)
	}
	created := &batch[0]

	if position != next {
		logger.Debug("Moving new timeslot into place", zap.String("id", created.ID), zap.Int("shift_number", position))
		created, err = store.UpdateTimeslot(ctx, created.ID, db.TimeslotPatch{ShiftNumber: &position})
		if err != nil {
			return nil, fmt.Errorf("failed to move timeslot to shift %d: %w", position, err)
		}
	}

	logger.Info("Created timeslot",
		zap.String("id", created.ID),
		zap.String("event_id", req.EventID),
		zap.Int("shift_number", created.ShiftNumber))

	return created, nil
}
