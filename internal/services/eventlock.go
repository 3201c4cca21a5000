package services

import (
	"context"
	"sync"

	"eventadmission/internal/domain"
)

// eventLocks serializes the read-decide-write critical section per event.
// Operations on different events never contend. Acquisition respects the
// caller's context; a deadline hit while waiting maps to ErrContention so
// callers can retry the whole operation. Entries are pruned once no holder
// or waiter remains, so the map is bounded by the number of events with
// in-flight operations.
type eventLocks struct {
	mu    sync.Mutex
	locks map[string]*eventLock
}

type eventLock struct {
	ch      chan struct{}
	waiters int
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[string]*eventLock)}
}

// enter registers interest in the event's lock, creating the entry on first
// use. Every enter must be paired with a leave.
func (l *eventLocks) enter(eventID string) *eventLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[eventID]
	if !ok {
		e = &eventLock{ch: make(chan struct{}, 1)}
		l.locks[eventID] = e
	}
	e.waiters++
	return e
}

func (l *eventLocks) leave(eventID string, e *eventLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.waiters--
	if e.waiters == 0 {
		delete(l.locks, eventID)
	}
}

// acquire blocks until the event's lock is held or ctx is done. On success
// the returned release function must be called exactly once.
func (l *eventLocks) acquire(ctx context.Context, eventID string) (release func(), err error) {
	e := l.enter(eventID)
	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.leave(eventID, e)
		}, nil
	case <-ctx.Done():
		l.leave(eventID, e)
		return nil, domain.ErrContention
	}
}
