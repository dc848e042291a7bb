// Package observability aggregates engine counters for heartbeat reporting.
package observability

import "sync/atomic"

// EngineStats is updated from the event path with atomic counters.
// Safe for concurrent use by multiple goroutines.
type EngineStats struct {
	eventsConsumed  atomic.Uint64
	matchesMade     atomic.Uint64
	sessionsEnded   atomic.Uint64
	messagesRelayed atomic.Uint64
	timeoutsFired   atomic.Uint64
	activeSessions  atomic.Int64
}

func NewEngineStats() *EngineStats {
	return &EngineStats{}
}

func (s *EngineStats) EventConsumed()  { s.eventsConsumed.Add(1) }
func (s *EngineStats) MessageRelayed() { s.messagesRelayed.Add(1) }
func (s *EngineStats) TimeoutFired()   { s.timeoutsFired.Add(1) }

func (s *EngineStats) MatchMade() {
	s.matchesMade.Add(1)
	s.activeSessions.Add(1)
}

func (s *EngineStats) SessionEnded() {
	s.sessionsEnded.Add(1)
	s.activeSessions.Add(-1)
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	EventsConsumed  uint64
	MatchesMade     uint64
	SessionsEnded   uint64
	MessagesRelayed uint64
	TimeoutsFired   uint64
	ActiveSessions  int64
}

func (s *EngineStats) Snapshot() Snapshot {
	return Snapshot{
		EventsConsumed:  s.eventsConsumed.Load(),
		MatchesMade:     s.matchesMade.Load(),
		SessionsEnded:   s.sessionsEnded.Load(),
		MessagesRelayed: s.messagesRelayed.Load(),
		TimeoutsFired:   s.timeoutsFired.Load(),
		ActiveSessions:  s.activeSessions.Load(),
	}
}
