package matching

import (
	"log/slog"
	"sync"
	"time"

	"socrates/store"
)

// TimeoutScheduler arms deferred actions tied to a participant's epoch.
// When a timer fires, the action runs only if the participant's current
// epoch still equals the one captured at scheduling time; otherwise the
// participant's state has moved on (matched, re-matched, disconnected or
// reset) and the timer is dropped without any effect.
//
// The epoch comparison here is a cheap pre-check. The actions themselves go
// through the store's ...IfEpoch operations, which repeat the comparison
// inside the store's critical section, so a concurrent live event can never
// slip between the check and the action.
type TimeoutScheduler struct {
	log   *slog.Logger
	store *store.ParticipantStore

	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	nextTok uint64
	stopped bool
}

func NewTimeoutScheduler(log *slog.Logger, s *store.ParticipantStore) *TimeoutScheduler {
	return &TimeoutScheduler{
		log:    log,
		store:  s,
		timers: make(map[uint64]*time.Timer),
	}
}

// ScheduleAfter arms action to run after d, guarded by the participant's epoch.
func (s *TimeoutScheduler) ScheduleAfter(d time.Duration, participantID string, epoch uint64, action func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.nextTok++
	token := s.nextTok

	timer := time.AfterFunc(d, func() {
		s.forget(token)

		current, ok := s.store.Epoch(participantID)
		if !ok || current != epoch {
			s.log.Debug("dropping stale timeout",
				"participant", participantID, "armed_epoch", epoch, "current_epoch", current)
			return
		}
		action()
	})
	s.timers[token] = timer
	s.mu.Unlock()
}

// Stop cancels every armed timer. Used on shutdown; timers that already
// fired are unaffected.
func (s *TimeoutScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for token, timer := range s.timers {
		timer.Stop()
		delete(s.timers, token)
	}
}

func (s *TimeoutScheduler) forget(token uint64) {
	s.mu.Lock()
	delete(s.timers, token)
	s.mu.Unlock()
}
