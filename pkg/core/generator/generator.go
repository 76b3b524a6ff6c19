package generator

import (
	"fmt"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

const (
	DefaultDurationMinutes = 120
	DefaultCapacity        = 5
)

// Request describes how to split an event window into shifts
type Request struct {
	EventID   string
	StartTime string // Format: "15:04"
	EndTime   string // Format: "15:04"

	// DurationMinutes is the length of each shift (0 means DefaultDurationMinutes)
	DurationMinutes int

	// Capacity is the number of volunteers per shift (0 means DefaultCapacity)
	Capacity int

	// FirstShiftNumber is the shift number given to the first slot (0 means 1)
	FirstShiftNumber int
}

// Plan splits the request window into consecutive shifts of DurationMinutes.
// The last shift is truncated at EndTime when the window does not divide evenly.
// The returned timeslots have no ID or timestamps; the caller assigns those on insert.
func Plan(req Request) ([]db.Timeslot, error) {
	start, end, err := model.ParseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = DefaultDurationMinutes
	}
	if duration < 0 {
		return nil, fmt.Errorf("duration must be positive, got %d: %w", duration, model.ErrInvalidTimeslot)
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d: %w", capacity, model.ErrInvalidTimeslot)
	}

	firstShift := req.FirstShiftNumber
	if firstShift == 0 {
		firstShift = 1
	}
	if firstShift < 0 {
		return nil, fmt.Errorf("first shift number must be positive, got %d: %w", firstShift, model.ErrInvalidTimeslot)
	}

	// A shift never outlasts the window, which also keeps the arithmetic below in range
	duration = min(duration, end-start)
	// ceil((end-start)/duration)
	count := (end-start-1)/duration + 1

	timeslots := make([]db.Timeslot, 0, count)
	for i := 0; i < count; i++ {
		slotStart := start + i*duration
		slotEnd := min(start+(i+1)*duration, end)

		timeslots = append(timeslots, db.Timeslot{
			EventID:     req.EventID,
			ShiftNumber: firstShift + i,
			StartTime:   model.FormatClock(slotStart),
			EndTime:     model.FormatClock(slotEnd),
			Capacity:    capacity,
		})
	}

	return timeslots, nil
}
