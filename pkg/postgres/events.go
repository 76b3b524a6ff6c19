package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

const eventColumns = `id, series_id, title, date, start_time, end_time, location, created_at`

func scanEvent(row pgx.Row) (db.Event, error) {
	var e db.Event
	var seriesID *string
	var date time.Time
	if err := row.Scan(&e.ID, &seriesID, &e.Title, &date, &e.StartTime, &e.EndTime, &e.Location, &e.CreatedAt); err != nil {
		return db.Event{}, err
	}
	if seriesID != nil {
		e.SeriesID = *seriesID
	}
	e.Date = date.Format("2006-01-02")
	return e, nil
}

// GetEvent retrieves an event by id
func (d *DB) GetEvent(ctx context.Context, id string) (*db.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NotFoundError("event", id)
	}

	e, err := scanEvent(d.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM event WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NotFoundError("event", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return &e, nil
}

// ListEvents retrieves events ordered by date, restricted to a series when seriesID is set
func (d *DB) ListEvents(ctx context.Context, seriesID string) ([]db.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event`
	var args []any
	if seriesID != "" {
		query += ` WHERE series_id = $1`
		args = append(args, seriesID)
	}
	query += ` ORDER BY date, id`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]db.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// InsertEventWithTimeslots inserts the event and its shifts in one transaction
func (d *DB) InsertEventWithTimeslots(ctx context.Context, event *db.Event, timeslots []db.Timeslot) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = d.now().UTC()
	}
	for i := range timeslots {
		timeslots[i].EventID = event.ID
	}
	if err := d.prepareTimeslots(timeslots); err != nil {
		return err
	}

	var seriesID *string
	if event.SeriesID != "" {
		seriesID = &event.SeriesID
	}

	return d.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO event (`+eventColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, event.ID, seriesID, event.Title, event.Date, event.StartTime, event.EndTime, event.Location, event.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}

		return insertTimeslots(ctx, tx, timeslots)
	})
}
