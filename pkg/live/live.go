// Package live merges an event's timeslot and confirmed-signup watches into
// one availability-annotated view for subscribers.
package live

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/availability"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// State is the lifecycle position of a Subscription
type State int32

const (
	StateIdle State = iota
	StateSubscribed
	StateUnsubscribed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribed:
		return "subscribed"
	case StateUnsubscribed:
		return "unsubscribed"
	}
	return "unknown"
}

// Session owns the live subscriptions of one consumer, at most one per event.
// Close releases all of them.
type Session struct {
	watcher db.Watcher
	logger  *zap.Logger

	mu     sync.Mutex
	subs   map[string]*Subscription
	closed bool
}

// NewSession creates a session reading from watcher
func NewSession(watcher db.Watcher, logger *zap.Logger) *Session {
	return &Session{
		watcher: watcher,
		logger:  logger,
		subs:    make(map[string]*Subscription),
	}
}

// Subscribe starts delivering the merged view of eventID to onData. A prior
// subscription to the same event is torn down first. onError receives errors
// from either watch; a nil onError logs them instead. Callbacks run on one
// goroutine per subscription and must not call Unsubscribe on their own
// subscription synchronously.
func (s *Session) Subscribe(eventID string, onData func([]model.TimeslotView), onError func(error)) *Subscription {
	if onError == nil {
		onError = func(err error) {
			s.logger.Warn("Live view error", zap.String("event_id", eventID), zap.Error(err))
		}
	}

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return finishedSubscription(s, eventID)
		}

		prior, exists := s.subs[eventID]
		if !exists {
			sub := newSubscription(s, eventID)
			s.subs[eventID] = sub
			s.mu.Unlock()

			sub.start(onData, onError)
			return sub
		}
		s.mu.Unlock()

		s.logger.Debug("Replacing live subscription", zap.String("event_id", eventID))
		prior.Unsubscribe()
	}
}

// Close unsubscribes everything. Later Subscribe calls return subscriptions
// that are already unsubscribed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// Active returns the number of live subscriptions
func (s *Session) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Session) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[sub.eventID] == sub {
		delete(s.subs, sub.eventID)
	}
}

// Subscription is one event's live view within a Session
type Subscription struct {
	session *Session
	eventID string
	state   atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newSubscription(s *Session, eventID string) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscription{
		session: s,
		eventID: eventID,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func finishedSubscription(s *Session, eventID string) *Subscription {
	sub := newSubscription(s, eventID)
	sub.cancel()
	sub.state.Store(int32(StateUnsubscribed))
	close(sub.done)
	sub.once.Do(func() {})
	return sub
}

// EventID returns the watched event
func (sub *Subscription) EventID() string {
	return sub.eventID
}

// State returns the current lifecycle state
func (sub *Subscription) State() State {
	return State(sub.state.Load())
}

// Done is closed once no more callbacks will run
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

// Unsubscribe tears down both watches and returns once no more callbacks
// will run. It is safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(func() {
		sub.cancel()
		<-sub.done
		sub.state.Store(int32(StateUnsubscribed))
		sub.session.remove(sub)
		sub.session.logger.Debug("Unsubscribed live view", zap.String("event_id", sub.eventID))
	})
}

func (sub *Subscription) start(onData func([]model.TimeslotView), onError func(error)) {
	timeslotCh, timeslotErrs := sub.session.watcher.WatchTimeslots(sub.ctx, sub.eventID)
	signupCh, signupErrs := sub.session.watcher.WatchConfirmedSignups(sub.ctx, sub.eventID)
	sub.state.Store(int32(StateSubscribed))
	sub.session.logger.Debug("Subscribed live view", zap.String("event_id", sub.eventID))

	go sub.run(timeslotCh, timeslotErrs, signupCh, signupErrs, onData, onError)
}

// run merges snapshots until the context ends or every watch channel closes.
// Nothing is emitted before the first timeslot snapshot.
func (sub *Subscription) run(
	timeslotCh <-chan []db.Timeslot,
	timeslotErrs <-chan error,
	signupCh <-chan []db.Signup,
	signupErrs <-chan error,
	onData func([]model.TimeslotView),
	onError func(error),
) {
	defer close(sub.done)

	var timeslots []db.Timeslot
	var signups []db.Signup
	haveTimeslots := false

	emit := func() {
		if !haveTimeslots || sub.ctx.Err() != nil {
			return
		}
		onData(availability.Merge(timeslots, signups))
	}
	fail := func(err error) {
		if sub.ctx.Err() != nil {
			return
		}
		onError(err)
	}

	for timeslotCh != nil || signupCh != nil || timeslotErrs != nil || signupErrs != nil {
		select {
		case <-sub.ctx.Done():
			return
		case snapshot, ok := <-timeslotCh:
			if !ok {
				timeslotCh = nil
				continue
			}
			timeslots = snapshot
			haveTimeslots = true
			emit()
		case snapshot, ok := <-signupCh:
			if !ok {
				signupCh = nil
				continue
			}
			signups = snapshot
			emit()
		case err, ok := <-timeslotErrs:
			if !ok {
				timeslotErrs = nil
				continue
			}
			fail(err)
		case err, ok := <-signupErrs:
			if !ok {
				signupErrs = nil
				continue
			}
			fail(err)
		}
	}
}
