package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// UpdateTimeslotStore defines the database operations needed for editing a shift
type UpdateTimeslotStore interface {
	GetTimeslot(ctx context.Context, id string) (*db.Timeslot, error)
	UpdateTimeslot(ctx context.Context, id string, patch db.TimeslotPatch) (*db.Timeslot, error)
}

// UpdateTimeslot applies the patch to a shift. The store rejects a capacity
// below the current confirmed count in the same transaction as the write.
func UpdateTimeslot(ctx context.Context, store UpdateTimeslotStore, logger *zap.Logger, id string, patch db.TimeslotPatch) (*db.Timeslot, error) {
	if patch.IsEmpty() {
		return store.GetTimeslot(ctx, id)
	}

	if patch.StartTime != nil {
		if _, err := model.ParseClock(*patch.StartTime); err != nil {
			return nil, err
		}
	}
	if patch.EndTime != nil {
		if _, err := model.ParseClock(*patch.EndTime); err != nil {
			return nil, err
		}
	}
	if patch.Capacity != nil && *patch.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d: %w", *patch.Capacity, model.ErrInvalidTimeslot)
	}
	if patch.ShiftNumber != nil && *patch.ShiftNumber <= 0 {
		return nil, fmt.Errorf("shift number must be positive, got %d: %w", *patch.ShiftNumber, model.ErrInvalidTimeslot)
	}

	updated, err := store.UpdateTimeslot(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update timeslot: %w", err)
	}

	logger.Info("Updated timeslot",
		zap.String("id", id),
		zap.Int("capacity", updated.Capacity),
		zap.String("start", updated.StartTime),
		zap.String("end", updated.EndTime))

	return updated, nil
}
