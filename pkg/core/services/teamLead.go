package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// TeamLeadStore defines the database operations needed for team lead changes
type TeamLeadStore interface {
	SetTeamLead(ctx context.Context, id string, userID *string) (*db.Timeslot, error)
}

// AssignTeamLead makes a signed-up volunteer the team lead of a shift
func AssignTeamLead(ctx context.Context, store TeamLeadStore, logger *zap.Logger, timeslotID, userID string) (*db.Timeslot, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", model.ErrTeamLeadNotSignedUp)
	}

	updated, err := store.SetTeamLead(ctx, timeslotID, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign team lead: %w", err)
	}

	logger.Info("Assigned team lead", zap.String("timeslot_id", timeslotID), zap.String("user_id", userID))
	return updated, nil
}

// RemoveTeamLead clears the team lead of a shift
func RemoveTeamLead(ctx context.Context, store TeamLeadStore, logger *zap.Logger, timeslotID string) (*db.Timeslot, error) {
	updated, err := store.SetTeamLead(ctx, timeslotID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to remove team lead: %w", err)
	}

	logger.Info("Removed team lead", zap.String("timeslot_id", timeslotID))
	return updated, nil
}
