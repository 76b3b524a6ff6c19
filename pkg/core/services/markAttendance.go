package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/metrics"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// MarkAttendanceStore defines the database operations needed for attendance marking
type MarkAttendanceStore interface {
	MarkAttendance(ctx context.Context, id string, status string, markedBy string, markedAt time.Time) (*db.Signup, error)
}

// MarkAttendance records whether a signed-up volunteer turned up
func MarkAttendance(ctx context.Context, store MarkAttendanceStore, logger *zap.Logger, signupID string, status string, markedBy string) (*db.Signup, error) {
	attendance, err := model.ParseAttendanceStatus(status)
	if err != nil {
		return nil, err
	}

	signup, err := store.MarkAttendance(ctx, signupID, string(attendance), markedBy, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}

	metrics.AttendanceMarks.WithLabelValues(string(attendance)).Inc()
	logger.Info("Marked attendance",
		zap.String("signup_id", signupID),
		zap.String("status", string(attendance)),
		zap.String("marked_by", markedBy))

	return signup, nil
}
