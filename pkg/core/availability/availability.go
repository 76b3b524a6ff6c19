package availability

import (
	"sort"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// AlmostFullPercent is the share of capacity at or below which a slot with
// places left counts as almost full
const AlmostFullPercent = 20

// Compute derives availability from a capacity and a confirmed signup count
func Compute(capacity, current int) model.Availability {
	available := capacity - current
	return model.Availability{
		Current:      current,
		Capacity:     capacity,
		Available:    available,
		IsFull:       available <= 0,
		IsAlmostFull: available > 0 && available <= almostFullThreshold(capacity),
	}
}

// almostFullThreshold returns ceil(capacity * AlmostFullPercent / 100) without floating point
func almostFullThreshold(capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return (capacity*AlmostFullPercent + 99) / 100
}

// ForTimeslot computes availability for a timeslot, counting only confirmed signups for it
func ForTimeslot(ts db.Timeslot, signups []db.Signup) model.Availability {
	current := 0
	for _, s := range signups {
		if s.TimeslotID == ts.ID && s.IsConfirmed() {
			current++
		}
	}
	return Compute(ts.Capacity, current)
}

// Merge attaches confirmed signups and availability to each timeslot and
// orders the result by shift number. Signups for unknown timeslots are dropped.
func Merge(timeslots []db.Timeslot, signups []db.Signup) []model.TimeslotView {
	bySlot := make(map[string][]db.Signup, len(timeslots))
	for _, s := range signups {
		if !s.IsConfirmed() {
			continue
		}
		bySlot[s.TimeslotID] = append(bySlot[s.TimeslotID], s)
	}

	views := make([]model.TimeslotView, 0, len(timeslots))
	for _, ts := range timeslots {
		slotSignups := bySlot[ts.ID]
		if slotSignups == nil {
			slotSignups = []db.Signup{}
		}
		sort.SliceStable(slotSignups, func(i, j int) bool {
			return slotSignups[i].SignupDate.Before(slotSignups[j].SignupDate)
		})
		views = append(views, model.TimeslotView{
			Timeslot:     ts,
			Signups:      slotSignups,
			Availability: Compute(ts.Capacity, len(slotSignups)),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.ShiftNumber != b.ShiftNumber {
			return a.ShiftNumber < b.ShiftNumber
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})

	return views
}
