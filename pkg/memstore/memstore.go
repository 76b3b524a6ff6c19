package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

// DB is an in-process implementation of db.Database.
// A single mutex serialises every operation, so each call is atomic.
type DB struct {
	mu        sync.Mutex
	events    map[string]db.Event
	timeslots map[string]db.Timeslot
	signups   map[string]db.Signup

	// confirmed maps a (timeslot, user) pair to its one confirmed signup id
	confirmed map[slotUser]string

	watchers map[string]map[*watcher]struct{}
	now      func() time.Time
}

type slotUser struct {
	timeslotID string
	userID     string
}

// Option configures a DB
type Option func(*DB)

// WithClock replaces time.Now for timestamps
func WithClock(now func() time.Time) Option {
	return func(d *DB) {
		d.now = now
	}
}

// New creates an empty in-memory database
func New(opts ...Option) *DB {
	d := &DB{
		events:    make(map[string]db.Event),
		timeslots: make(map[string]db.Timeslot),
		signups:   make(map[string]db.Signup),
		confirmed: make(map[slotUser]string),
		watchers:  make(map[string]map[*watcher]struct{}),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func newID() string {
	return uuid.New().String()
}

// timeslotsFor returns copies of the event's timeslots ordered by shift number. Caller holds mu.
func (d *DB) timeslotsFor(eventID string) []db.Timeslot {
	result := make([]db.Timeslot, 0)
	for _, ts := range d.timeslots {
		if ts.EventID == eventID {
			result = append(result, cloneTimeslot(ts))
		}
	}
	sortTimeslots(result)
	return result
}

// signupsMatching returns copies of the matching signups ordered by signup date. Caller holds mu.
func (d *DB) signupsMatching(filter db.SignupFilter) []db.Signup {
	result := make([]db.Signup, 0)
	for _, s := range d.signups {
		if filter.Matches(s) {
			result = append(result, cloneSignup(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SignupDate.Equal(result[j].SignupDate) {
			return result[i].SignupDate.Before(result[j].SignupDate)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// confirmedCount returns the number of confirmed signups for a timeslot. Caller holds mu.
func (d *DB) confirmedCount(timeslotID string) int {
	count := 0
	for key := range d.confirmed {
		if key.timeslotID == timeslotID {
			count++
		}
	}
	return count
}

func sortTimeslots(timeslots []db.Timeslot) {
	sort.Slice(timeslots, func(i, j int) bool {
		a, b := timeslots[i], timeslots[j]
		if a.ShiftNumber != b.ShiftNumber {
			return a.ShiftNumber < b.ShiftNumber
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

func cloneTimeslot(ts db.Timeslot) db.Timeslot {
	ts.TeamLeadUserID = cloneString(ts.TeamLeadUserID)
	return ts
}

func cloneSignup(s db.Signup) db.Signup {
	s.AttendanceStatus = cloneString(s.AttendanceStatus)
	s.AttendanceMarkedBy = cloneString(s.AttendanceMarkedBy)
	if s.AttendanceMarkedAt != nil {
		t := *s.AttendanceMarkedAt
		s.AttendanceMarkedAt = &t
	}
	return s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
