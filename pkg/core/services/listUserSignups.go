package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// UserShift is one of a volunteer's signups with the shift it is for.
// Timeslot is nil if the shift no longer exists.
type UserShift struct {
	Signup   db.Signup
	Timeslot *db.Timeslot
}

// UserSignupsStore defines the database operations needed for a volunteer's shift list
type UserSignupsStore interface {
	GetTimeslot(ctx context.Context, id string) (*db.Timeslot, error)
	ListSignups(ctx context.Context, filter db.SignupFilter) ([]db.Signup, error)
}

// ListUserSignups returns the user's signups in signup order, confirmed only
// unless includeCancelled is set
func ListUserSignups(ctx context.Context, store UserSignupsStore, userID string, includeCancelled bool) ([]UserShift, error) {
	filter := db.SignupFilter{UserID: userID}
	if !includeCancelled {
		filter.Status = db.StatusConfirmed
	}

	signups, err := store.ListSignups(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signups: %w", err)
	}

	sort.SliceStable(signups, func(i, j int) bool {
		return signups[i].SignupDate.Before(signups[j].SignupDate)
	})

	timeslots := make(map[string]*db.Timeslot)
	shifts := make([]UserShift, 0, len(signups))
	for _, s := range signups {
		ts, seen := timeslots[s.TimeslotID]
		if !seen {
			ts, err = store.GetTimeslot(ctx, s.TimeslotID)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				return nil, fmt.Errorf("failed to fetch timeslot %s: %w", s.TimeslotID, err)
			}
			timeslots[s.TimeslotID] = ts
		}
		shifts = append(shifts, UserShift{Signup: s, Timeslot: ts})
	}

	return shifts, nil
}
