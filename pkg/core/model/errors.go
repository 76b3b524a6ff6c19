package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when an end time is not after its start time
	ErrInvalidRange = errors.New("end time must be after start time")
	// ErrAlreadySignedUp is returned when the user already holds a confirmed signup for the slot
	ErrAlreadySignedUp = errors.New("user is already signed up for this timeslot")
	// ErrSlotFull is returned when the slot has no capacity left
	ErrSlotFull = errors.New("timeslot is full")
	// ErrInvalidStatus is returned for attendance statuses outside the fixed set
	ErrInvalidStatus = errors.New("invalid attendance status")
	// ErrNotFound is returned when a referenced timeslot, signup or event does not exist
	ErrNotFound = errors.New("not found")
	// ErrCapacityBelowSignups is returned when a capacity edit would drop below the confirmed count
	ErrCapacityBelowSignups = errors.New("capacity cannot be lower than the number of confirmed signups")
	// ErrSignupCancelled is returned when acting on a signup that has already been cancelled
	ErrSignupCancelled = errors.New("signup is cancelled")
	// ErrTeamLeadNotSignedUp is returned when a team lead candidate has no confirmed signup for the slot
	ErrTeamLeadNotSignedUp = errors.New("team lead must be signed up for the timeslot")
	// ErrInvalidTimeslot is returned for malformed times, shift numbers or capacities
	ErrInvalidTimeslot = errors.New("invalid timeslot")
)

// BatchError reports a multi-step operation that stopped part way through.
// Steps that completed before the failure are not rolled back.
type BatchError struct {
	Op        string
	Completed int
	Total     int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: completed %d of %d steps: %v", e.Op, e.Completed, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// NotFoundError wraps ErrNotFound with the kind and id of the missing record
func NotFoundError(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
