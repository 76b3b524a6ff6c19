package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/config"
	"github.com/jakechorley/shiftsignup/pkg/clients/sheetsclient"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// RosterStore defines the database operations needed for publishing a roster
type RosterStore interface {
	GetEvent(ctx context.Context, id string) (*db.Event, error)
	EventTimeslotsStore
}

// RosterPublisher writes a built roster somewhere people can read it
type RosterPublisher interface {
	PublishRoster(ctx context.Context, spreadsheetID string, roster *sheetsclient.PublishedRoster) error
}

// PublishRoster builds the event's roster from its shifts and confirmed
// signups and publishes it to the configured spreadsheet
func PublishRoster(
	ctx context.Context,
	store RosterStore,
	publisher RosterPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	eventID string,
) (*sheetsclient.PublishedRoster, error) {
	if cfg.Roster.SpreadsheetID == "" {
		return nil, fmt.Errorf("roster.spreadsheetID is not configured")
	}

	logger.Debug("Publishing roster", zap.String("event_id", eventID))

	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	views, err := ListEventTimeslots(ctx, store, eventID)
	if err != nil {
		return nil, err
	}

	roster := &sheetsclient.PublishedRoster{
		Title: event.Title,
		Date:  event.Date,
		Rows:  make([]sheetsclient.PublishedRosterRow, 0, len(views)),
	}
	for _, view := range views {
		row := sheetsclient.PublishedRosterRow{
			Shift:      view.ShiftNumber,
			Time:       view.StartTime + "-" + view.EndTime,
			Capacity:   view.Timeslot.Capacity,
			Volunteers: make([]string, 0, len(view.Signups)),
		}
		for _, s := range view.Signups {
			row.Volunteers = append(row.Volunteers, s.FullName())
			if view.TeamLeadUserID != nil && *view.TeamLeadUserID == s.UserID {
				row.TeamLead = s.FullName()
			}
		}
		roster.Rows = append(roster.Rows, row)
	}

	if err := publisher.PublishRoster(ctx, cfg.Roster.SpreadsheetID, roster); err != nil {
		return nil, fmt.Errorf("failed to publish roster: %w", err)
	}

	logger.Info("Published roster",
		zap.String("event_id", eventID),
		zap.String("title", event.Title),
		zap.Int("shifts", len(roster.Rows)))

	return roster, nil
}
