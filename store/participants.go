// Package store holds per-id participant state behind atomic operations.
// Every read-decide-write the matching layer needs happens inside one
// critical section here, so callers never do ad hoc read-modify-write
// against shared state.
package store

import (
	"sync"
	"time"

	"socrates/domain"
	"socrates/errors"
)

type ParticipantStore struct {
	mu           sync.RWMutex
	participants map[string]*domain.Participant
}

func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{
		participants: make(map[string]*domain.Participant),
	}
}

// Register inserts a fresh record for an unknown id.
func (s *ParticipantStore) Register(id string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[id]; ok {
		return domain.Participant{}, errors.ErrAlreadyRegistered
	}
	p := &domain.Participant{
		ID:        id,
		Stage:     domain.StageNew,
		CreatedAt: time.Now().UTC(),
	}
	s.participants[id] = p
	return *p, nil
}

// Get returns a snapshot of the participant record.
func (s *ParticipantStore) Get(id string) (domain.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

// Snapshot returns a consistent copy of every participant record.
// The matchmaker filters candidates from it; availability is re-validated
// at commit time by PairIfAvailable.
func (s *ParticipantStore) Snapshot() []domain.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, *p)
	}
	return out
}

// Epoch returns the participant's current epoch.
func (s *ParticipantStore) Epoch(id string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	if !ok {
		return 0, false
	}
	return p.Epoch, true
}

// SetRole records the declared role and advances the onboarding stage.
func (s *ParticipantStore) SetRole(id string, role domain.Role) error {
	return s.update(id, func(p *domain.Participant) {
		p.Role = role
		if p.Stage < domain.StageRoleChosen {
			p.Stage = domain.StageRoleChosen
		}
	})
}

// SetField records the declared field and advances the onboarding stage.
func (s *ParticipantStore) SetField(id string, field domain.Field) error {
	return s.update(id, func(p *domain.Participant) {
		p.Field = field
		if p.Stage < domain.StageFieldChosen {
			p.Stage = domain.StageFieldChosen
		}
	})
}

// SetSearching flips the wants-to-be-matched flag.
func (s *ParticipantStore) SetSearching(id string, searching bool) error {
	return s.update(id, func(p *domain.Participant) {
		p.Searching = searching
	})
}

// Reset replaces the record with a fresh New one, discarding role, field and
// search state. Any live pairing is dissolved as part of the replacement so
// partner symmetry holds unconditionally. The epoch keeps increasing across
// the reset, which is what invalidates every timer armed for the old record.
func (s *ParticipantStore) Reset(id string) domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()

	var epoch uint64
	if old, ok := s.participants[id]; ok {
		epoch = old.Epoch + 1
		if other, exists := s.participants[old.Partner]; exists && old.Partner != "" {
			other.Partner = ""
			other.Searching = false
			other.Epoch++
		}
	}
	p := &domain.Participant{
		ID:        id,
		Stage:     domain.StageNew,
		Epoch:     epoch,
		CreatedAt: time.Now().UTC(),
	}
	s.participants[id] = p
	return *p
}

// PairIfAvailable is the commit step of tryMatch. Both participants must
// still be searching and unmatched; otherwise the candidate snapshot was
// stale and ErrNoCandidate is returned. On success both partner links, both
// searching flags and both epochs change in this single critical section,
// which is what makes double-booking impossible.
func (s *ParticipantStore) PairIfAvailable(a, b string) (epochA, epochB uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pa, ok := s.participants[a]
	if !ok {
		return 0, 0, errors.ErrNotFound
	}
	pb, ok := s.participants[b]
	if !ok {
		return 0, 0, errors.ErrNotFound
	}
	if !pa.Searching || pa.Partner != "" || !pb.Searching || pb.Partner != "" {
		return 0, 0, errors.ErrNoCandidate
	}

	pa.Partner = b
	pb.Partner = a
	pa.Searching = false
	pb.Searching = false
	pa.Epoch++
	pb.Epoch++
	return pa.Epoch, pb.Epoch, nil
}

// ClearPair dissolves the pairing the participant is part of and returns the
// partner id. Both sides are cleared and epoch-bumped atomically. Calling it
// again, or for an unpaired participant, is a no-op.
func (s *ParticipantStore) ClearPair(id string) (other string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearPairLocked(id)
}

// ClearPairIfEpoch is the session-expiry variant of ClearPair: it only acts
// when the participant's epoch still matches the one captured at scheduling
// time. A mismatch means the session already ended or was replaced, and the
// timer is stale.
func (s *ParticipantStore) ClearPairIfEpoch(id string, epoch uint64) (other string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.participants[id]
	if !exists || p.Epoch != epoch {
		return "", false
	}
	return s.clearPairLocked(id)
}

// ClearSearchingIfEpoch is the no-match-timeout action: it stops the search
// only if the participant is still searching, unmatched, and under the same
// epoch as when the timer was armed.
func (s *ParticipantStore) ClearSearchingIfEpoch(id string, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.participants[id]
	if !exists || p.Epoch != epoch || !p.Searching || p.Partner != "" {
		return false
	}
	p.Searching = false
	p.Epoch++
	return true
}

func (s *ParticipantStore) clearPairLocked(id string) (string, bool) {
	p, exists := s.participants[id]
	if !exists || p.Partner == "" {
		return "", false
	}
	partner := p.Partner
	p.Partner = ""
	p.Searching = false
	p.Epoch++

	if q, exists := s.participants[partner]; exists {
		q.Partner = ""
		q.Searching = false
		q.Epoch++
	}
	return partner, true
}

func (s *ParticipantStore) update(id string, fn func(*domain.Participant)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return errors.ErrNotFound
	}
	fn(p)
	return nil
}
