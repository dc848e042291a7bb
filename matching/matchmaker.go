// Package matching owns the pairing relation: candidate selection, atomic
// session creation and teardown, message relay, and the epoch-guarded
// deferred actions that retire stale searches and expired sessions.
package matching

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"socrates/domain"
	"socrates/errors"
	"socrates/store"
)

// Matchmaker selects an opposite-role, same-field, available candidate for a
// requester. Selection among valid candidates is uniform random, with no
// preference by recency or registration order.
type Matchmaker struct {
	store *store.ParticipantStore
	pick  func(n int) int
}

func NewMatchmaker(s *store.ParticipantStore) *Matchmaker {
	return &Matchmaker{store: s, pick: rand.IntN}
}

// FindCandidate scans a snapshot of all participants and draws one valid
// candidate. It is a pure read-then-select: the caller must re-validate
// availability at commit time, since another match may land between the
// snapshot and the commit.
func (m *Matchmaker) FindCandidate(id string) (string, error) {
	requester, ok := m.store.Get(id)
	if !ok {
		return "", errors.ErrNotFound
	}

	candidates := lo.Filter(m.store.Snapshot(), func(p domain.Participant, _ int) bool {
		return p.CandidateFor(requester)
	})
	if len(candidates) == 0 {
		return "", errors.ErrNoCandidate
	}
	return candidates[m.pick(len(candidates))].ID, nil
}
