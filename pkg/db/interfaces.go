package db

import (
	"context"
	"time"
)

// TimeslotStore defines the interface for timeslot database operations.
// Implementations run every mutating method in a single transaction.
type TimeslotStore interface {
	GetTimeslot(ctx context.Context, id string) (*Timeslot, error)
	ListTimeslots(ctx context.Context, eventID string) ([]Timeslot, error)
	// InsertTimeslots inserts all timeslots or none of them
	InsertTimeslots(ctx context.Context, timeslots []Timeslot) error
	// UpdateTimeslot merges the patch, rejecting a capacity below the current confirmed count
	UpdateTimeslot(ctx context.Context, id string, patch TimeslotPatch) (*Timeslot, error)
	// DeleteTimeslot removes the timeslot and all of its signups, then renumbers the
	// remaining shifts of the event densely from 1. Returns the number of signups removed.
	DeleteTimeslot(ctx context.Context, id string) (int, error)
	// SetTeamLead sets the team lead, or clears it when userID is nil.
	// The user must hold a confirmed signup for the timeslot.
	SetTeamLead(ctx context.Context, id string, userID *string) (*Timeslot, error)
}

// SignupStore defines the interface for signup database operations
type SignupStore interface {
	GetSignup(ctx context.Context, id string) (*Signup, error)
	ListSignups(ctx context.Context, filter SignupFilter) ([]Signup, error)
	// CreateSignup inserts a confirmed signup if the user has none on the slot and
	// the slot has free capacity, checked and written atomically
	CreateSignup(ctx context.Context, signup *Signup) error
	// CancelSignup flips the signup to cancelled and clears the slot's team lead
	// if the cancelling user held it
	CancelSignup(ctx context.Context, id string) (*Signup, error)
	MarkAttendance(ctx context.Context, id string, status string, markedBy string, markedAt time.Time) (*Signup, error)
}

// EventStore defines the interface for event database operations
type EventStore interface {
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, seriesID string) ([]Event, error)
	// InsertEventWithTimeslots inserts the event and its shifts in one transaction
	InsertEventWithTimeslots(ctx context.Context, event *Event, timeslots []Timeslot) error
}

// Watcher delivers full snapshots of an event's timeslots or confirmed signups.
// A snapshot is sent once when the watch starts and again after every change.
// Both channels are closed when ctx is done.
type Watcher interface {
	WatchTimeslots(ctx context.Context, eventID string) (<-chan []Timeslot, <-chan error)
	WatchConfirmedSignups(ctx context.Context, eventID string) (<-chan []Signup, <-chan error)
}

// Database defines the interface for all database operations.
// Both the in-memory memstore.DB and postgres.DB implement this interface.
type Database interface {
	TimeslotStore
	SignupStore
	EventStore
	Watcher
}
