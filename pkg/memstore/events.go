package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// GetEvent retrieves an event by id
func (d *DB) GetEvent(ctx context.Context, id string) (*db.Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.events[id]
	if !ok {
		return nil, model.NotFoundError("event", id)
	}
	return &e, nil
}

// ListEvents retrieves events ordered by date, restricted to a series when seriesID is set
func (d *DB) ListEvents(ctx context.Context, seriesID string) ([]db.Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	events := make([]db.Event, 0)
	for _, e := range d.events {
		if seriesID == "" || e.SeriesID == seriesID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

// InsertEventWithTimeslots inserts an event together with its shifts
func (d *DB) InsertEventWithTimeslots(ctx context.Context, event *db.Event, timeslots []db.Timeslot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if event.ID == "" {
		event.ID = newID()
	}
	if _, exists := d.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = d.now()
	}

	for i := range timeslots {
		timeslots[i].EventID = event.ID
	}
	if err := d.insertTimeslotsLocked(timeslots); err != nil {
		return err
	}

	d.events[event.ID] = *event
	if len(timeslots) > 0 {
		d.publishTimeslots(event.ID)
	}
	return nil
}
