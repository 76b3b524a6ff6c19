package memstore

import (
	"context"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

type watcher struct {
	timeslots chan []db.Timeslot
	signups   chan []db.Signup
}

// WatchTimeslots pushes the event's timeslots after every change to them
func (d *DB) WatchTimeslots(ctx context.Context, eventID string) (<-chan []db.Timeslot, <-chan error) {
	w := &watcher{timeslots: make(chan []db.Timeslot, 1)}
	errs := make(chan error)

	d.mu.Lock()
	d.addWatcher(eventID, w)
	offer(w.timeslots, d.timeslotsFor(eventID))
	d.mu.Unlock()

	go d.closeOnDone(ctx, eventID, w, func() {
		close(w.timeslots)
		close(errs)
	})
	return w.timeslots, errs
}

// WatchConfirmedSignups pushes the event's confirmed signups after every change to them
func (d *DB) WatchConfirmedSignups(ctx context.Context, eventID string) (<-chan []db.Signup, <-chan error) {
	w := &watcher{signups: make(chan []db.Signup, 1)}
	errs := make(chan error)

	d.mu.Lock()
	d.addWatcher(eventID, w)
	offer(w.signups, d.confirmedSignupsFor(eventID))
	d.mu.Unlock()

	go d.closeOnDone(ctx, eventID, w, func() {
		close(w.signups)
		close(errs)
	})
	return w.signups, errs
}

func (d *DB) addWatcher(eventID string, w *watcher) {
	if d.watchers[eventID] == nil {
		d.watchers[eventID] = make(map[*watcher]struct{})
	}
	d.watchers[eventID][w] = struct{}{}
}

// closeOnDone unregisters the watcher once ctx is done. Channels are closed
// under mu so no publish can send on them afterwards.
func (d *DB) closeOnDone(ctx context.Context, eventID string, w *watcher, closeChannels func()) {
	<-ctx.Done()

	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.watchers[eventID], w)
	if len(d.watchers[eventID]) == 0 {
		delete(d.watchers, eventID)
	}
	closeChannels()
}

func (d *DB) confirmedSignupsFor(eventID string) []db.Signup {
	return d.signupsMatching(db.SignupFilter{EventID: eventID, Status: db.StatusConfirmed})
}

// publishTimeslots sends a fresh snapshot to the event's timeslot watchers. Caller holds mu.
func (d *DB) publishTimeslots(eventID string) {
	var snapshot []db.Timeslot
	for w := range d.watchers[eventID] {
		if w.timeslots == nil {
			continue
		}
		if snapshot == nil {
			snapshot = d.timeslotsFor(eventID)
		}
		offer(w.timeslots, cloneTimeslots(snapshot))
	}
}

// publishSignups sends a fresh snapshot to the event's signup watchers. Caller holds mu.
func (d *DB) publishSignups(eventID string) {
	var snapshot []db.Signup
	for w := range d.watchers[eventID] {
		if w.signups == nil {
			continue
		}
		if snapshot == nil {
			snapshot = d.confirmedSignupsFor(eventID)
		}
		offer(w.signups, cloneSignups(snapshot))
	}
}

// offer delivers v, replacing any snapshot the reader has not taken yet.
// Only publishers holding mu send, so the replace cannot race another send.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func cloneTimeslots(in []db.Timeslot) []db.Timeslot {
	out := make([]db.Timeslot, len(in))
	for i, ts := range in {
		out[i] = cloneTimeslot(ts)
	}
	return out
}

func cloneSignups(in []db.Signup) []db.Signup {
	out := make([]db.Signup, len(in))
	for i, s := range in {
		out[i] = cloneSignup(s)
	}
	return out
}
