package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/generator"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// defaultSeriesSpan bounds a series whose rule has neither COUNT nor UNTIL
const defaultSeriesSpan = 1 // years

// SeriesRequest describes a recurring event and the shifts each occurrence gets.
// Occurrences are taken from RRule between From and Until inclusive; a zero
// Until means one year after From.
type SeriesRequest struct {
	SeriesID        string // Empty starts a new series
	Title           string
	Location        string
	RRule           string // e.g. "FREQ=WEEKLY;BYDAY=SA;COUNT=10"
	From            time.Time
	Until           time.Time
	StartTime       string
	EndTime         string
	DurationMinutes int
	Capacity        int
}

// SeriesResult reports the events created and the dates skipped because the
// series already had an event on them
type SeriesResult struct {
	SeriesID string
	Created  []db.Event
	Skipped  []string
}

// SeriesStore defines the database operations needed for creating an event series
type SeriesStore interface {
	ListEvents(ctx context.Context, seriesID string) ([]db.Event, error)
	InsertEventWithTimeslots(ctx context.Context, event *db.Event, timeslots []db.Timeslot) error
}

// CreateEventSeries creates one event per rule occurrence, each with its
// generated shifts in a single transaction. Dates the series already covers
// are skipped, so a failed run can be repeated with the same SeriesID to
// resume. A failure part way through returns a *model.BatchError.
func CreateEventSeries(ctx context.Context, store SeriesStore, logger *zap.Logger, req SeriesRequest) (*SeriesResult, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("series title is required")
	}
	if req.From.IsZero() {
		return nil, fmt.Errorf("series start date is required")
	}

	// Validate the shift window once rather than per occurrence
	template, err := generator.Plan(generator.Request{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
	})
	if err != nil {
		return nil, err
	}

	dates, err := occurrenceDates(req)
	if err != nil {
		return nil, err
	}

	seriesID := req.SeriesID
	if seriesID == "" {
		seriesID = uuid.New().String()
	}

	logger.Info("Creating event series",
		zap.String("series_id", seriesID),
		zap.String("rrule", req.RRule),
		zap.Int("occurrences", len(dates)))

	existing, err := store.ListEvents(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series events: %w", err)
	}
	existingDates := make(map[string]bool, len(existing))
	for _, e := range existing {
		existingDates[e.Date] = true
	}

	result := &SeriesResult{SeriesID: seriesID}
	for i, date := range dates {
		if existingDates[date] {
			logger.Debug("Skipping existing occurrence", zap.String("date", date))
			result.Skipped = append(result.Skipped, date)
			continue
		}

		event := &db.Event{
			SeriesID:  seriesID,
			Title:     req.Title,
			Date:      date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Location:  req.Location,
		}
		timeslots := make([]db.Timeslot, len(template))
		copy(timeslots, template)

		if err := store.InsertEventWithTimeslots(ctx, event, timeslots); err != nil {
			return result, &model.BatchError{
				Op:        "create event series",
				Completed: i,
				Total:     len(dates),
				Err:       fmt.Errorf("failed to create event on %s: %w", date, err),
			}
		}

		logger.Debug("Created occurrence",
			zap.String("event_id", event.ID),
			zap.String("date", date),
			zap.Int("shifts", len(timeslots)))
		result.Created = append(result.Created, *event)
	}

	logger.Info("Created event series",
		zap.String("series_id", seriesID),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

// occurrenceDates expands the rule into "2006-01-02" dates
func occurrenceDates(req SeriesRequest) ([]string, error) {
	rule, err := rrule.StrToRRule(req.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule: %w", err)
	}

	from := time.Date(req.From.Year(), req.From.Month(), req.From.Day(), 0, 0, 0, 0, time.UTC)
	until := req.Until
	if until.IsZero() {
		until = from.AddDate(defaultSeriesSpan, 0, 0)
	}
	until = time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, 0, time.UTC)
	if until.Before(from) {
		return nil, fmt.Errorf("series end %s is before start %s: %w",
			until.Format("2006-01-02"), from.Format("2006-01-02"), model.ErrInvalidRange)
	}

	rule.DTStart(from)

	var dates []string
	for _, occurrence := range rule.Between(from, until, true) {
		dates = append(dates, occurrence.Format("2006-01-02"))
	}
	return dates, nil
}
