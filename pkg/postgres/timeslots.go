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

const timeslotColumns = `id, event_id, shift_number, start_time, end_time, capacity, team_lead_user_id, created_at, updated_at`

func scanTimeslot(row pgx.Row) (db.Timeslot, error) {
	var ts db.Timeslot
	err := row.Scan(&ts.ID, &ts.EventID, &ts.ShiftNumber, &ts.StartTime, &ts.EndTime,
		&ts.Capacity, &ts.TeamLeadUserID, &ts.CreatedAt, &ts.UpdatedAt)
	return ts, err
}

// GetTimeslot retrieves a timeslot by id
func (d *DB) GetTimeslot(ctx context.Context, id string) (*db.Timeslot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NotFoundError("timeslot", id)
	}

	ts, err := scanTimeslot(d.pool.QueryRow(ctx, `
		SELECT `+timeslotColumns+` FROM timeslot WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NotFoundError("timeslot", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query timeslot: %w", err)
	}
	return &ts, nil
}

// ListTimeslots retrieves all timeslots of an event ordered by shift number
func (d *DB) ListTimeslots(ctx context.Context, eventID string) ([]db.Timeslot, error) {
	return listTimeslots(ctx, d.pool, eventID)
}

func listTimeslots(ctx context.Context, q querier, eventID string) ([]db.Timeslot, error) {
	rows, err := q.Query(ctx, `
		SELECT `+timeslotColumns+`
		FROM timeslot
		WHERE event_id = $1
		ORDER BY shift_number, start_time, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeslots: %w", err)
	}
	defer rows.Close()

	timeslots := make([]db.Timeslot, 0)
	for rows.Next() {
		ts, err := scanTimeslot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeslot: %w", err)
		}
		timeslots = append(timeslots, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeslots: %w", err)
	}

	return timeslots, nil
}

// InsertTimeslots inserts all timeslots in one transaction.
// Missing ids and timestamps are assigned.
func (d *DB) InsertTimeslots(ctx context.Context, timeslots []db.Timeslot) error {
	if len(timeslots) == 0 {
		return nil
	}

	if err := d.prepareTimeslots(timeslots); err != nil {
		return err
	}

	return d.withTx(ctx, func(tx pgx.Tx) error {
		return insertTimeslots(ctx, tx, timeslots)
	})
}

func (d *DB) prepareTimeslots(timeslots []db.Timeslot) error {
	now := d.now().UTC()
	for i := range timeslots {
		ts := &timeslots[i]
		if ts.EventID == "" {
			return fmt.Errorf("timeslot %d has no event id: %w", i, model.ErrInvalidTimeslot)
		}
		if err := model.ValidateTimeslot(*ts); err != nil {
			return err
		}
		if ts.ID == "" {
			ts.ID = uuid.New().String()
		}
		if ts.CreatedAt.IsZero() {
			ts.CreatedAt = now
		}
		if ts.UpdatedAt.IsZero() {
			ts.UpdatedAt = ts.CreatedAt
		}
	}
	return nil
}

func insertTimeslots(ctx context.Context, tx pgx.Tx, timeslots []db.Timeslot) error {
	for _, ts := range timeslots {
		_, err := tx.Exec(ctx, `
			INSERT INTO timeslot (`+timeslotColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, ts.ID, ts.EventID, ts.ShiftNumber, ts.StartTime, ts.EndTime,
			ts.Capacity, ts.TeamLeadUserID, ts.CreatedAt, ts.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert timeslot: %w", err)
		}
	}
	return nil
}

// lockTimeslot reads a timeslot and holds its row lock until the transaction ends
func lockTimeslot(ctx context.Context, tx pgx.Tx, id string) (db.Timeslot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return db.Timeslot{}, model.NotFoundError("timeslot", id)
	}

	ts, err := scanTimeslot(tx.QueryRow(ctx, `
		SELECT `+timeslotColumns+` FROM timeslot WHERE id = $1 FOR UPDATE
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return db.Timeslot{}, model.NotFoundError("timeslot", id)
	}
	if err != nil {
		return db.Timeslot{}, fmt.Errorf("failed to lock timeslot: %w", err)
	}
	return ts, nil
}

func countConfirmed(ctx context.Context, tx pgx.Tx, timeslotID string) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM signup WHERE timeslot_id = $1 AND status = $2
	`, timeslotID, db.StatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed signups: %w", err)
	}
	return count, nil
}

// UpdateTimeslot merges the patch into the timeslot. A new shift number moves
// the slot within its event and renumbers the siblings in the same transaction.
func (d *DB) UpdateTimeslot(ctx context.Context, id string, patch db.TimeslotPatch) (*db.Timeslot, error) {
	var updated db.Timeslot
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		ts, err := lockTimeslot(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.StartTime != nil {
			ts.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			ts.EndTime = *patch.EndTime
		}
		if patch.Capacity != nil {
			ts.Capacity = *patch.Capacity
		}
		if err := model.ValidateTimeslot(ts); err != nil {
			return err
		}

		current, err := countConfirmed(ctx, tx, id)
		if err != nil {
			return err
		}
		if ts.Capacity < current {
			return fmt.Errorf("capacity %d with %d confirmed signups: %w", ts.Capacity, current, model.ErrCapacityBelowSignups)
		}

		now := d.now().UTC()
		if patch.ShiftNumber != nil && *patch.ShiftNumber != ts.ShiftNumber {
			number, err := moveShift(ctx, tx, ts, *patch.ShiftNumber, now)
			if err != nil {
				return err
			}
			ts.ShiftNumber = number
		}

		updated, err = scanTimeslot(tx.QueryRow(ctx, `
			UPDATE timeslot
			SET shift_number = $2, start_time = $3, end_time = $4, capacity = $5, updated_at = $6
			WHERE id = $1
			RETURNING `+timeslotColumns+`
		`, id, ts.ShiftNumber, ts.StartTime, ts.EndTime, ts.Capacity, now))
		if err != nil {
			return fmt.Errorf("failed to update timeslot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// moveShift renumbers the siblings of ts so that ts can take position, and
// returns the number ts ends up with. The caller writes ts itself.
func moveShift(ctx context.Context, tx pgx.Tx, ts db.Timeslot, position int, now time.Time) (int, error) {
	siblings, err := listTimeslotsForUpdate(ctx, tx, ts.EventID)
	if err != nil {
		return 0, err
	}

	reordered, err := model.MoveShift(siblings, ts.ID, position)
	if err != nil {
		return 0, err
	}

	current := make(map[string]int, len(siblings))
	for _, s := range siblings {
		current[s.ID] = s.ShiftNumber
	}

	number := position
	for _, s := range reordered {
		if s.ID == ts.ID {
			number = s.ShiftNumber
			continue
		}
		if current[s.ID] == s.ShiftNumber {
			continue
		}
		_, err := tx.Exec(ctx, `UPDATE timeslot SET shift_number = $2, updated_at = $3 WHERE id = $1`,
			s.ID, s.ShiftNumber, now)
		if err != nil {
			return 0, fmt.Errorf("failed to renumber timeslot: %w", err)
		}
	}
	return number, nil
}

func listTimeslotsForUpdate(ctx context.Context, tx pgx.Tx, eventID string) ([]db.Timeslot, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+timeslotColumns+`
		FROM timeslot
		WHERE event_id = $1
		ORDER BY shift_number, start_time, id
		FOR UPDATE
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock event timeslots: %w", err)
	}
	defer rows.Close()

	var timeslots []db.Timeslot
	for rows.Next() {
		ts, err := scanTimeslot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeslot: %w", err)
		}
		timeslots = append(timeslots, ts)
	}
	return timeslots, rows.Err()
}

// DeleteTimeslot removes the timeslot with all of its signups and renumbers the
// remaining shifts of the event, all in one transaction
func (d *DB) DeleteTimeslot(ctx context.Context, id string) (int, error) {
	var removed int
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		ts, err := lockTimeslot(ctx, tx, id)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM signup WHERE timeslot_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete signups: %w", err)
		}
		removed = int(tag.RowsAffected())

		if _, err := tx.Exec(ctx, `DELETE FROM timeslot WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete timeslot: %w", err)
		}

		_, err = tx.Exec(ctx, `
			WITH ordered AS (
				SELECT id, ROW_NUMBER() OVER (ORDER BY shift_number, start_time, id) AS n
				FROM timeslot
				WHERE event_id = $1
			)
			UPDATE timeslot t
			SET shift_number = ordered.n, updated_at = $2
			FROM ordered
			WHERE t.id = ordered.id AND t.shift_number <> ordered.n
		`, ts.EventID, d.now().UTC())
		if err != nil {
			return fmt.Errorf("failed to renumber timeslots: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// SetTeamLead sets or clears the team lead of a timeslot
func (d *DB) SetTeamLead(ctx context.Context, id string, userID *string) (*db.Timeslot, error) {
	var updated db.Timeslot
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockTimeslot(ctx, tx, id); err != nil {
			return err
		}

		if userID != nil {
			var signedUp bool
			err := tx.QueryRow(ctx, `
				SELECT EXISTS (
					SELECT 1 FROM signup WHERE timeslot_id = $1 AND user_id = $2 AND status = $3
				)
			`, id, *userID, db.StatusConfirmed).Scan(&signedUp)
			if err != nil {
				return fmt.Errorf("failed to check team lead signup: %w", err)
			}
			if !signedUp {
				return fmt.Errorf("user %s on timeslot %s: %w", *userID, id, model.ErrTeamLeadNotSignedUp)
			}
		}

		var err error
		updated, err = scanTimeslot(tx.QueryRow(ctx, `
			UPDATE timeslot SET team_lead_user_id = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+timeslotColumns+`
		`, id, userID, d.now().UTC()))
		if err != nil {
			return fmt.Errorf("failed to set team lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
