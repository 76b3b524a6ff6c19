package model

import (
	"fmt"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "PRESENT"
	AttendanceLate      AttendanceStatus = "LATE"
	AttendanceLeftEarly AttendanceStatus = "LEFT_EARLY"
	AttendanceNoShow    AttendanceStatus = "NO_SHOW"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceLeftEarly, AttendanceNoShow:
		return true
	}
	return false
}

// ParseAttendanceStatus converts a raw status, rejecting anything outside the fixed set
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	status := AttendanceStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidStatus)
	}
	return status, nil
}

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleVolunteer
}

// UserSnapshot holds the user details copied onto a signup when it is made
type UserSnapshot struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// Availability is the capacity state of a timeslot derived from its confirmed signups
type Availability struct {
	Current      int  `json:"current"`
	Capacity     int  `json:"capacity"`
	Available    int  `json:"available"`
	IsFull       bool `json:"isFull"`
	IsAlmostFull bool `json:"isAlmostFull"`
}

// TimeslotView is a timeslot merged with its confirmed signups and availability
type TimeslotView struct {
	db.Timeslot
	Signups []db.Signup
	Availability
}
