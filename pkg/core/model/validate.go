package model

import (
	"fmt"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

// ValidateTimeslot checks the clock range, capacity and shift number of a timeslot
func ValidateTimeslot(ts db.Timeslot) error {
	if _, _, err := ParseRange(ts.StartTime, ts.EndTime); err != nil {
		return err
	}
	if ts.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d: %w", ts.Capacity, ErrInvalidTimeslot)
	}
	if ts.ShiftNumber <= 0 {
		return fmt.Errorf("shift number must be positive, got %d: %w", ts.ShiftNumber, ErrInvalidTimeslot)
	}
	return nil
}

// MoveShift places the timeslot with the given id at position (1-based) in an
// event's shifts, already ordered by shift number, and numbers the result 1..N.
// The input slice is not modified.
func MoveShift(ordered []db.Timeslot, id string, position int) ([]db.Timeslot, error) {
	if position < 1 || position > len(ordered) {
		return nil, fmt.Errorf("shift number %d outside 1..%d: %w", position, len(ordered), ErrInvalidTimeslot)
	}

	moved := -1
	for i, ts := range ordered {
		if ts.ID == id {
			moved = i
			break
		}
	}
	if moved < 0 {
		return nil, NotFoundError("timeslot", id)
	}

	result := make([]db.Timeslot, 0, len(ordered))
	result = append(result, ordered[:moved]...)
	result = append(result, ordered[moved+1:]...)
	result = append(result[:position-1], append([]db.Timeslot{ordered[moved]}, result[position-1:]...)...)
	for i := range result {
		result[i].ShiftNumber = i + 1
	}
	return result, nil
}
