package matching

import (
	"context"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"socrates/contract"
	"socrates/domain"
	"socrates/errors"
	"socrates/moderation"
	"socrates/store"
)

// SessionManager creates and ends pairings and relays text inside them.
// All state transitions go through the store's composite atomic operations;
// outbound sends happen strictly after the state has committed, so a slow
// notification channel never holds the matching path open.
type SessionManager struct {
	log        *slog.Logger
	store      *store.ParticipantStore
	matchmaker *Matchmaker
	notifier   contract.NotificationChannel
	journal    contract.RelayJournal
	moderator  *moderation.Moderator
}

func NewSessionManager(
	log *slog.Logger,
	s *store.ParticipantStore,
	matchmaker *Matchmaker,
	notifier contract.NotificationChannel,
	journal contract.RelayJournal,
	moderator *moderation.Moderator,
) *SessionManager {
	return &SessionManager{
		log:        log,
		store:      s,
		matchmaker: matchmaker,
		notifier:   notifier,
		journal:    journal,
		moderator:  moderator,
	}
}

// TryMatch draws a candidate and commits the pairing in one atomic step
// against the store. A candidate that became unavailable between the draw
// and the commit surfaces as ErrNoCandidate; the caller decides whether to
// retry or to arm the no-match timer.
func (m *SessionManager) TryMatch(id string) (domain.Session, error) {
	p, ok := m.store.Get(id)
	if !ok {
		return domain.Session{}, errors.ErrNotFound
	}
	if p.InSession() {
		return domain.Session{}, errors.ErrAlreadyInSession
	}
	if !p.Searching {
		return domain.Session{}, errors.ErrNoCandidate
	}

	candidate, err := m.matchmaker.FindCandidate(id)
	if err != nil {
		return domain.Session{}, err
	}

	epochA, epochB, err := m.store.PairIfAvailable(id, candidate)
	if err != nil {
		m.log.Debug("match commit lost the candidate", "participant", id, "candidate", candidate)
		return domain.Session{}, err
	}

	session := domain.Session{
		ID:        uuid.New(),
		A:         id,
		B:         candidate,
		EpochA:    epochA,
		EpochB:    epochB,
		CreatedAt: time.Now().UTC(),
	}
	m.log.Info("participants matched", "a", id, "b", candidate)
	return session, nil
}

// End dissolves the pairing the participant is part of and returns the
// partner id. Ending an already-ended session is a no-op.
func (m *SessionManager) End(id string) (string, bool) {
	other, ok := m.store.ClearPair(id)
	if ok {
		m.log.Info("session ended", "a", id, "b", other)
	}
	return other, ok
}

// EndIfEpoch is the expiry-timer variant of End: it only dissolves the pair
// when the participant's epoch still matches the one the timer was armed
// with. A stale timer is silently dropped.
func (m *SessionManager) EndIfEpoch(id string, epoch uint64) (string, bool) {
	other, ok := m.store.ClearPairIfEpoch(id, epoch)
	if ok {
		m.log.Info("session expired", "a", id, "b", other)
	}
	return other, ok
}

// Relay delivers text to the sender's current partner, verbatim except for
// censored words. Without a partner it is a no-op. The journal entry and
// the delivery both happen after the partner id was read consistently.
func (m *SessionManager) Relay(ctx context.Context, id, text string) error {
	p, ok := m.store.Get(id)
	if !ok {
		return errors.ErrNotFound
	}
	if !p.InSession() {
		m.log.Debug("relay without a partner ignored", "participant", id)
		return nil
	}

	content := text
	if m.moderator != nil {
		censored, found := m.moderator.Censor(text)
		if len(found) > 0 {
			m.log.Warn("relayed message censored", "participant", id, "words", len(found))
		}
		content = censored
	}

	if m.journal != nil {
		info := whatlanggo.Detect(text)
		rec := contract.RelayRecord{
			ID:        uuid.NewString(),
			SessionID: pairKey(id, p.Partner),
			From:      id,
			To:        p.Partner,
			Content:   content,
			Lang:      info.Lang.Iso6391(),
			At:        time.Now().UTC().UnixNano(),
		}
		if err := m.journal.Record(rec); err != nil {
			m.log.Error("relay journal write failed", "error", err)
		}
	}

	if err := m.notifier.Send(ctx, p.Partner, domain.TextMessage(content)); err != nil {
		m.log.Error("relay delivery failed", "from", id, "to", p.Partner, "error", err)
		return err
	}
	return nil
}

// pairKey derives a stable session key from the two participant ids.
func pairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}
