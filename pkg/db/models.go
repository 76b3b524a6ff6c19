package db

import "time"

// Signup status values
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Event represents a program event that owns shifts
type Event struct {
	ID        string
	SeriesID  string // Empty for one-off events
	Title     string
	Date      string // Format: "2006-01-02"
	StartTime string // Format: "15:04"
	EndTime   string // Format: "15:04"
	Location  string
	CreatedAt time.Time
}

// Timeslot represents a volunteer shift within an event
type Timeslot struct {
	ID             string
	EventID        string
	ShiftNumber    int
	StartTime      string // Format: "15:04"
	EndTime        string // Format: "15:04"
	Capacity       int
	TeamLeadUserID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Signup represents a user's claim on one place in a timeslot.
// The user fields are captured at signup time and are not kept in sync with
// later profile edits.
type Signup struct {
	ID                 string
	TimeslotID         string
	EventID            string
	UserID             string
	UserEmail          string
	UserFirstName      string
	UserLastName       string
	UserPhone          string
	Status             string
	AttendanceStatus   *string
	AttendanceMarkedAt *time.Time
	AttendanceMarkedBy *string
	SignupDate         time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsConfirmed reports whether the signup currently holds a place
func (s Signup) IsConfirmed() bool {
	return s.Status == StatusConfirmed
}

// FullName returns the captured display name of the signed up user
func (s Signup) FullName() string {
	switch {
	case s.UserFirstName == "":
		return s.UserLastName
	case s.UserLastName == "":
		return s.UserFirstName
	}
	return s.UserFirstName + " " + s.UserLastName
}

// TimeslotPatch holds the fields an update may change. Nil fields are left as they are.
type TimeslotPatch struct {
	ShiftNumber *int
	StartTime   *string
	EndTime     *string
	Capacity    *int
}

// IsEmpty reports whether the patch changes nothing
func (p TimeslotPatch) IsEmpty() bool {
	return p.ShiftNumber == nil && p.StartTime == nil && p.EndTime == nil && p.Capacity == nil
}

// SignupFilter selects signups. Empty fields match everything.
type SignupFilter struct {
	EventID    string
	TimeslotID string
	UserID     string
	Status     string
}

// Matches reports whether the signup satisfies the filter
func (f SignupFilter) Matches(s Signup) bool {
	if f.EventID != "" && s.EventID != f.EventID {
		return false
	}
	if f.TimeslotID != "" && s.TimeslotID != f.TimeslotID {
		return false
	}
	if f.UserID != "" && s.UserID != f.UserID {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}
