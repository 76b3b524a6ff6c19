package postgres

import (
	"context"
	"reflect"
	"time"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

// WatchTimeslots polls the event's timeslots and sends a snapshot whenever it changes
func (d *DB) WatchTimeslots(ctx context.Context, eventID string) (<-chan []db.Timeslot, <-chan error) {
	return poll(ctx, d.pollInterval, func(ctx context.Context) ([]db.Timeslot, error) {
		return d.ListTimeslots(ctx, eventID)
	})
}

// WatchConfirmedSignups polls the event's confirmed signups and sends a snapshot whenever it changes
func (d *DB) WatchConfirmedSignups(ctx context.Context, eventID string) (<-chan []db.Signup, <-chan error) {
	return poll(ctx, d.pollInterval, func(ctx context.Context) ([]db.Signup, error) {
		return d.ListSignups(ctx, db.SignupFilter{EventID: eventID, Status: db.StatusConfirmed})
	})
}

// poll calls fetch immediately and then every interval. A snapshot is sent
// only when it differs from the last one sent; fetch errors are reported and
// polling continues. Both channels are closed once ctx is done.
func poll[T any](ctx context.Context, interval time.Duration, fetch func(context.Context) ([]T, error)) (<-chan []T, <-chan error) {
	snapshots := make(chan []T)
	errs := make(chan error)

	go func() {
		defer close(snapshots)
		defer close(errs)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last []T
		sent := false
		for {
			snapshot, err := fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			} else if !sent || !reflect.DeepEqual(last, snapshot) {
				select {
				case snapshots <- snapshot:
					last = snapshot
					sent = true
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots, errs
}
