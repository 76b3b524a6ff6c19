package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/metrics"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// CancelSignupStore defines the database operations needed for cancelling a signup
type CancelSignupStore interface {
	CancelSignup(ctx context.Context, id string) (*db.Signup, error)
}

// CancelSignup flips a signup to cancelled, freeing its place
func CancelSignup(ctx context.Context, store CancelSignupStore, logger *zap.Logger, signupID string) (*db.Signup, error) {
	signup, err := store.CancelSignup(ctx, signupID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel signup: %w", err)
	}

	metrics.Cancellations.Inc()
	logger.Info("Cancelled signup",
		zap.String("signup_id", signup.ID),
		zap.String("timeslot_id", signup.TimeslotID),
		zap.String("user_id", signup.UserID))

	return signup, nil
}
