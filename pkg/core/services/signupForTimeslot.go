package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/metrics"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// SignupRequest identifies the shift and the user claiming a place on it.
// EventID is optional; when set it must match the shift's event.
type SignupRequest struct {
	TimeslotID string
	EventID    string
	User       model.UserSnapshot
}

// SignupStore defines the database operations needed for signing up
type SignupStore interface {
	CreateSignup(ctx context.Context, signup *db.Signup) error
}

// SignupForTimeslot claims one place on a shift for the user. The duplicate
// and capacity checks run atomically with the insert inside the store.
func SignupForTimeslot(ctx context.Context, store SignupStore, logger *zap.Logger, req SignupRequest) (*db.Signup, error) {
	if req.User.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	signup := &db.Signup{
		TimeslotID:    req.TimeslotID,
		EventID:       req.EventID,
		UserID:        req.User.UserID,
		UserEmail:     req.User.Email,
		UserFirstName: req.User.FirstName,
		UserLastName:  req.User.LastName,
		UserPhone:     req.User.Phone,
	}

	if err := store.CreateSignup(ctx, signup); err != nil {
		metrics.Signups.WithLabelValues(signupOutcome(err)).Inc()
		if errors.Is(err, model.ErrAlreadySignedUp) || errors.Is(err, model.ErrSlotFull) {
			logger.Warn("Signup rejected",
				zap.String("timeslot_id", req.TimeslotID),
				zap.String("user_id", req.User.UserID),
				zap.Error(err))
			return nil, err
		}
		return nil, fmt.Errorf("failed to create signup: %w", err)
	}

	metrics.Signups.WithLabelValues(metrics.OutcomeConfirmed).Inc()
	logger.Info("Signed up",
		zap.String("signup_id", signup.ID),
		zap.String("timeslot_id", signup.TimeslotID),
		zap.String("user_id", signup.UserID))

	return signup, nil
}

func signupOutcome(err error) string {
	switch {
	case errors.Is(err, model.ErrAlreadySignedUp):
		return metrics.OutcomeAlreadySigned
	case errors.Is(err, model.ErrSlotFull):
		return metrics.OutcomeFull
	}
	return metrics.OutcomeError
}
