package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

const signupColumns = `id, timeslot_id, event_id, user_id, user_email, user_first_name, user_last_name, user_phone,
	status, attendance_status, attendance_marked_at, attendance_marked_by, signup_date, created_at, updated_at`

const uniqueViolation = "23505"

func scanSignup(row pgx.Row) (db.Signup, error) {
	var s db.Signup
	err := row.Scan(&s.ID, &s.TimeslotID, &s.EventID, &s.UserID, &s.UserEmail, &s.UserFirstName,
		&s.UserLastName, &s.UserPhone, &s.Status, &s.AttendanceStatus, &s.AttendanceMarkedAt,
		&s.AttendanceMarkedBy, &s.SignupDate, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetSignup retrieves a signup by id
func (d *DB) GetSignup(ctx context.Context, id string) (*db.Signup, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NotFoundError("signup", id)
	}

	s, err := scanSignup(d.pool.QueryRow(ctx, `SELECT `+signupColumns+` FROM signup WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.NotFoundError("signup", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query signup: %w", err)
	}
	return &s, nil
}

// ListSignups retrieves the signups matching the filter ordered by signup date
func (d *DB) ListSignups(ctx context.Context, filter db.SignupFilter) ([]db.Signup, error) {
	var conditions []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("event_id", filter.EventID)
	add("user_id", filter.UserID)
	add("status", filter.Status)
	if filter.TimeslotID != "" {
		if _, err := uuid.Parse(filter.TimeslotID); err != nil {
			return []db.Signup{}, nil
		}
		add("timeslot_id", filter.TimeslotID)
	}

	query := `SELECT ` + signupColumns + ` FROM signup`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY signup_date, id"

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	signups := make([]db.Signup, 0)
	for rows.Next() {
		s, err := scanSignup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		signups = append(signups, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signups: %w", err)
	}

	return signups, nil
}

// CreateSignup inserts a confirmed signup. The timeslot row lock serialises
// concurrent signups for the same slot, so the capacity check and the insert
// see the same count. The partial unique index rejects a second confirmed
// signup for the same user even if the lock were bypassed.
func (d *DB) CreateSignup(ctx context.Context, signup *db.Signup) error {
	now := d.now().UTC()
	candidate := *signup
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	if candidate.SignupDate.IsZero() {
		candidate.SignupDate = now
	}
	candidate.Status = db.StatusConfirmed
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	err := d.withTx(ctx, func(tx pgx.Tx) error {
		ts, err := lockTimeslot(ctx, tx, candidate.TimeslotID)
		if err != nil {
			return err
		}
		if candidate.EventID != "" && candidate.EventID != ts.EventID {
			return fmt.Errorf("timeslot %s in event %s: %w", ts.ID, candidate.EventID, model.ErrNotFound)
		}
		candidate.EventID = ts.EventID

		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM signup WHERE timeslot_id = $1 AND user_id = $2 AND status = $3
			)
		`, ts.ID, candidate.UserID, db.StatusConfirmed).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check existing signup: %w", err)
		}
		if exists {
			return fmt.Errorf("user %s on timeslot %s: %w", candidate.UserID, ts.ID, model.ErrAlreadySignedUp)
		}

		current, err := countConfirmed(ctx, tx, ts.ID)
		if err != nil {
			return err
		}
		if current >= ts.Capacity {
			return fmt.Errorf("timeslot %s: %w", ts.ID, model.ErrSlotFull)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO signup (`+signupColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, candidate.ID, candidate.TimeslotID, candidate.EventID, candidate.UserID, candidate.UserEmail,
			candidate.UserFirstName, candidate.UserLastName, candidate.UserPhone, candidate.Status,
			candidate.AttendanceStatus, candidate.AttendanceMarkedAt, candidate.AttendanceMarkedBy,
			candidate.SignupDate, candidate.CreatedAt, candidate.UpdatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s on timeslot %s: %w", candidate.UserID, ts.ID, model.ErrAlreadySignedUp)
		}
		if err != nil {
			return fmt.Errorf("failed to insert signup: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	*signup = candidate
	return nil
}

// CancelSignup flips a confirmed signup to cancelled and clears the slot's
// team lead if the user held it. Locks are taken timeslot first, matching
// CreateSignup and DeleteTimeslot.
func (d *DB) CancelSignup(ctx context.Context, id string) (*db.Signup, error) {
	current, err := d.GetSignup(ctx, id)
	if err != nil {
		return nil, err
	}

	var cancelled db.Signup
	err = d.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockTimeslot(ctx, tx, current.TimeslotID); err != nil {
			return err
		}

		s, err := lockSignup(ctx, tx, id)
		if err != nil {
			return err
		}
		if !s.IsConfirmed() {
			return fmt.Errorf("signup %s: %w", id, model.ErrSignupCancelled)
		}

		now := d.now().UTC()
		cancelled, err = scanSignup(tx.QueryRow(ctx, `
			UPDATE signup SET status = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+signupColumns+`
		`, id, db.StatusCancelled, now))
		if err != nil {
			return fmt.Errorf("failed to cancel signup: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE timeslot SET team_lead_user_id = NULL, updated_at = $3
			WHERE id = $1 AND team_lead_user_id = $2
		`, s.TimeslotID, s.UserID, now)
		if err != nil {
			return fmt.Errorf("failed to clear team lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// MarkAttendance records the attendance status of a confirmed signup
func (d *DB) MarkAttendance(ctx context.Context, id string, status string, markedBy string, markedAt time.Time) (*db.Signup, error) {
	var marked db.Signup
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		s, err := lockSignup(ctx, tx, id)
		if err != nil {
			return err
		}
		if !s.IsConfirmed() {
			return fmt.Errorf("signup %s: %w", id, model.ErrSignupCancelled)
		}

		marked, err = scanSignup(tx.QueryRow(ctx, `
			UPDATE signup
			SET attendance_status = $2, attendance_marked_by = $3, attendance_marked_at = $4, updated_at = $5
			WHERE id = $1
			RETURNING `+signupColumns+`
		`, id, status, markedBy, markedAt.UTC(), d.now().UTC()))
		if err != nil {
			return fmt.Errorf("failed to mark attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &marked, nil
}

func lockSignup(ctx context.Context, tx pgx.Tx, id string) (db.Signup, error) {
	if _, err := uuid.Parse(id); err != nil {
		return db.Signup{}, model.NotFoundError("signup", id)
	}

	s, err := scanSignup(tx.QueryRow(ctx, `SELECT `+signupColumns+` FROM signup WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return db.Signup{}, model.NotFoundError("signup", id)
	}
	if err != nil {
		return db.Signup{}, fmt.Errorf("failed to lock signup: %w", err)
	}
	return s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
