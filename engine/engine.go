// Package engine interprets inbound participant events and drives the
// store, matchmaker, session manager and timeout scheduler. One call to
// HandleEvent processes one user action end to end; all shared state is
// mutated through the store's atomic operations, so HandleEvent is safe to
// run from many workers at once.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"socrates/contract"
	"socrates/domain"
	"socrates/errors"
	"socrates/matching"
	"socrates/observability"
	"socrates/store"
)

const (
	inputGetStarted = "get started"
	inputMatchMe    = "match me"
	inputDisconnect = "disconnect"
	inputWhatAmI    = "what am i"
)

type Engine struct {
	log       *slog.Logger
	store     *store.ParticipantStore
	sessions  *matching.SessionManager
	scheduler *matching.TimeoutScheduler
	notifier  contract.NotificationChannel
	stats     *observability.EngineStats

	noMatchTimeout time.Duration
	sessionTTL     time.Duration
}

func New(
	log *slog.Logger,
	s *store.ParticipantStore,
	sessions *matching.SessionManager,
	scheduler *matching.TimeoutScheduler,
	notifier contract.NotificationChannel,
	stats *observability.EngineStats,
	noMatchTimeout, sessionTTL time.Duration,
) *Engine {
	return &Engine{
		log:            log,
		store:          s,
		sessions:       sessions,
		scheduler:      scheduler,
		notifier:       notifier,
		stats:          stats,
		noMatchTimeout: noMatchTimeout,
		sessionTTL:     sessionTTL,
	}
}

// HandleEvent runs one inbound event through the per-participant state
// machine. Unknown ids are registered on first contact. Unrecognized input
// degrades to a clarifying prompt; nothing here is fatal.
func (e *Engine) HandleEvent(ctx context.Context, ev domain.Event) {
	e.stats.EventConsumed()

	input := strings.ToLower(strings.TrimSpace(ev.Payload))

	p, known := e.store.Get(ev.SenderID)
	if !known {
		registered, err := e.store.Register(ev.SenderID)
		if err != nil {
			// Lost a registration race with another event from the same id.
			registered, _ = e.store.Get(ev.SenderID)
		}
		p = registered
	}

	// "get started" resets from any state, ending a live session first.
	if input == inputGetStarted {
		e.handleGetStarted(ctx, p)
		return
	}

	if p.InSession() {
		e.handleInSession(ctx, p, ev, input)
		return
	}

	if input == inputWhatAmI {
		if p.Role == domain.RoleUnset {
			e.send(ctx, p.ID, roleClarification())
			return
		}
		e.send(ctx, p.ID, whatAmI(p.Role))
		return
	}

	switch p.Stage {
	case domain.StageNew:
		e.handleAwaitingRole(ctx, p, input)
	case domain.StageRoleChosen:
		e.handleAwaitingField(ctx, p, input)
	case domain.StageFieldChosen:
		e.handleIdle(ctx, p, input)
	}
}

func (e *Engine) handleGetStarted(ctx context.Context, p domain.Participant) {
	if other, ok := e.sessions.End(p.ID); ok {
		e.stats.SessionEnded()
		e.send(ctx, other, sessionEnded())
	}
	e.store.Reset(p.ID)
	e.send(ctx, p.ID, greetingCard())
	e.send(ctx, p.ID, rolePrompt())
}

func (e *Engine) handleAwaitingRole(ctx context.Context, p domain.Participant, input string) {
	role := domain.ParseRole(input)
	if role == domain.RoleUnset {
		e.send(ctx, p.ID, roleClarification())
		return
	}
	if err := e.store.SetRole(p.ID, role); err != nil {
		e.log.Error("set role failed", "participant", p.ID, "error", err)
		return
	}
	e.send(ctx, p.ID, roleThanks(role))
	e.send(ctx, p.ID, fieldPrompt())
}

func (e *Engine) handleAwaitingField(ctx context.Context, p domain.Participant, input string) {
	// Role can still be corrected while the field prompt is open.
	if role := domain.ParseRole(input); role != domain.RoleUnset {
		if err := e.store.SetRole(p.ID, role); err == nil {
			e.send(ctx, p.ID, roleThanks(role))
			e.send(ctx, p.ID, fieldPrompt())
		}
		return
	}

	field := domain.ParseField(input)
	if field == domain.FieldUnset {
		e.send(ctx, p.ID, fieldClarification())
		return
	}
	if err := e.store.SetField(p.ID, field); err != nil {
		e.log.Error("set field failed", "participant", p.ID, "error", err)
		return
	}
	e.send(ctx, p.ID, matchMePrompt())
}

func (e *Engine) handleIdle(ctx context.Context, p domain.Participant, input string) {
	if input != inputMatchMe {
		e.send(ctx, p.ID, genericClarification())
		return
	}
	if p.Searching {
		// The no-match timer for the running search is still armed; arming a
		// second one under the same epoch would fire two notices.
		e.send(ctx, p.ID, stillSearching())
		return
	}

	if err := e.store.SetSearching(p.ID, true); err != nil {
		e.log.Error("set searching failed", "participant", p.ID, "error", err)
		return
	}
	e.send(ctx, p.ID, attemptingMatch())

	session, err := e.sessions.TryMatch(p.ID)
	switch {
	case err == nil:
		e.stats.MatchMade()
		e.send(ctx, session.A, matchAlert())
		e.send(ctx, session.B, matchAlert())
		e.scheduleExpiry(session)
	case err == errors.ErrNoCandidate:
		e.scheduleNoMatch(p.ID)
	case err == errors.ErrAlreadyInSession:
		e.send(ctx, p.ID, alreadyInSession())
	default:
		e.log.Error("match attempt failed", "participant", p.ID, "error", err)
	}
}

func (e *Engine) handleInSession(ctx context.Context, p domain.Participant, ev domain.Event, input string) {
	switch input {
	case inputDisconnect:
		other, ok := e.sessions.End(p.ID)
		if !ok {
			e.send(ctx, p.ID, genericClarification())
			return
		}
		e.stats.SessionEnded()
		e.send(ctx, p.ID, sessionEnded())
		e.send(ctx, other, sessionEnded())
	case inputMatchMe:
		e.send(ctx, p.ID, alreadyInSession())
	default:
		// Postbacks and blank text carry nothing worth relaying.
		if ev.Kind != domain.EventText || input == "" {
			e.send(ctx, p.ID, genericClarification())
			return
		}
		if err := e.sessions.Relay(ctx, p.ID, ev.Payload); err == nil {
			e.stats.MessageRelayed()
		}
	}
}

// scheduleExpiry arms the session-expiry timer. The timer keys on the
// initiating side's id and epoch: any disconnect, reset or re-match bumps
// that epoch, which retires the timer.
func (e *Engine) scheduleExpiry(session domain.Session) {
	e.scheduler.ScheduleAfter(e.sessionTTL, session.A, session.EpochA, func() {
		other, ok := e.sessions.EndIfEpoch(session.A, session.EpochA)
		if !ok {
			return
		}
		e.stats.SessionEnded()
		e.stats.TimeoutFired()
		ctx := context.Background()
		e.send(ctx, session.A, sessionExpired())
		e.send(ctx, other, sessionExpired())
	})
}

// scheduleNoMatch arms the no-match timer under the requester's current epoch.
// A later match bumps the epoch and the timer goes stale.
func (e *Engine) scheduleNoMatch(id string) {
	epoch, ok := e.store.Epoch(id)
	if !ok {
		return
	}
	e.scheduler.ScheduleAfter(e.noMatchTimeout, id, epoch, func() {
		if !e.store.ClearSearchingIfEpoch(id, epoch) {
			return
		}
		e.stats.TimeoutFired()
		e.send(context.Background(), id, noMatchFound())
	})
}

// send delivers after state has committed. Failures are logged and dropped;
// the conversation state never rolls back because of a delivery problem.
func (e *Engine) send(ctx context.Context, recipient string, msg domain.OutboundMessage) {
	if err := e.notifier.Send(ctx, recipient, msg); err != nil {
		e.log.Error("notification delivery failed", "recipient", recipient, "error", err)
	}
}
