package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"socrates/domain"
	"socrates/errors"
)

func TestStore_Register_New_Participant(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	id := uuid.NewString()

	// When an unknown id registers
	p, err := s.Register(id)

	// Then a fresh New record exists
	req.NoError(err)
	req.Equal(id, p.ID)
	req.Equal(domain.StageNew, p.Stage)
	req.Equal(domain.RoleUnset, p.Role)
	req.False(p.Searching)
	req.False(p.InSession())

	// And registering again fails
	_, err = s.Register(id)
	req.ErrorIs(err, errors.ErrAlreadyRegistered)
}

func TestStore_Mutations_Unknown_Id(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()

	req.ErrorIs(s.SetRole("ghost", domain.RoleMentor), errors.ErrNotFound)
	req.ErrorIs(s.SetField("ghost", domain.FieldIT), errors.ErrNotFound)
	req.ErrorIs(s.SetSearching("ghost", true), errors.ErrNotFound)
}

func TestStore_SetRole_And_Field_Advance_Stage(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	id := uuid.NewString()
	_, err := s.Register(id)
	req.NoError(err)

	req.NoError(s.SetRole(id, domain.RoleMentor))
	p, _ := s.Get(id)
	req.Equal(domain.StageRoleChosen, p.Stage)
	req.Equal(domain.RoleMentor, p.Role)

	req.NoError(s.SetField(id, domain.FieldIT))
	p, _ = s.Get(id)
	req.Equal(domain.StageFieldChosen, p.Stage)
	req.Equal(domain.FieldIT, p.Field)

	// Correcting the role later must not regress the stage
	req.NoError(s.SetRole(id, domain.RoleMentee))
	p, _ = s.Get(id)
	req.Equal(domain.StageFieldChosen, p.Stage)
}

func TestStore_PairIfAvailable_Commits_Both_Sides(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	a, b := registeredSearchingPair(t, s)

	epochA, epochB, err := s.PairIfAvailable(a, b)
	req.NoError(err)
	req.Equal(uint64(1), epochA)
	req.Equal(uint64(1), epochB)

	// Then partner links are symmetric and searching is off on both sides
	pa, _ := s.Get(a)
	pb, _ := s.Get(b)
	req.Equal(b, pa.Partner)
	req.Equal(a, pb.Partner)
	req.False(pa.Searching)
	req.False(pb.Searching)
}

func TestStore_PairIfAvailable_Rejects_Stale_Candidate(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	a, b := registeredSearchingPair(t, s)

	// Given b was already matched with someone else
	c := uuid.NewString()
	_, err := s.Register(c)
	req.NoError(err)
	req.NoError(s.SetSearching(c, true))
	_, _, err = s.PairIfAvailable(b, c)
	req.NoError(err)

	// When a commits against the stale snapshot
	_, _, err = s.PairIfAvailable(a, b)

	// Then the commit is refused and b's pairing is intact
	req.ErrorIs(err, errors.ErrNoCandidate)
	pb, _ := s.Get(b)
	req.Equal(c, pb.Partner)
}

func TestStore_ClearPair_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	a, b := registeredSearchingPair(t, s)
	_, _, err := s.PairIfAvailable(a, b)
	req.NoError(err)

	other, ok := s.ClearPair(a)
	req.True(ok)
	req.Equal(b, other)

	pa, _ := s.Get(a)
	pb, _ := s.Get(b)
	req.False(pa.InSession())
	req.False(pb.InSession())

	// Ending again is a no-op
	_, ok = s.ClearPair(a)
	req.False(ok)
	_, ok = s.ClearPair(b)
	req.False(ok)
}

func TestStore_ClearPairIfEpoch_Drops_Stale_Timer(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	a, b := registeredSearchingPair(t, s)
	epochA, _, err := s.PairIfAvailable(a, b)
	req.NoError(err)

	// Given the session ended and a re-matched with c
	_, ok := s.ClearPair(a)
	req.True(ok)
	c := uuid.NewString()
	_, err = s.Register(c)
	req.NoError(err)
	req.NoError(s.SetSearching(c, true))
	req.NoError(s.SetSearching(a, true))
	_, _, err = s.PairIfAvailable(a, c)
	req.NoError(err)

	// When the old expiry fires with the stale epoch
	_, ok = s.ClearPairIfEpoch(a, epochA)

	// Then the new session is untouched
	req.False(ok)
	pa, _ := s.Get(a)
	req.Equal(c, pa.Partner)
}

func TestStore_ClearSearchingIfEpoch(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	id := uuid.NewString()
	_, err := s.Register(id)
	req.NoError(err)
	req.NoError(s.SetSearching(id, true))

	epoch, ok := s.Epoch(id)
	req.True(ok)

	// A stale epoch does nothing
	req.False(s.ClearSearchingIfEpoch(id, epoch+1))
	p, _ := s.Get(id)
	req.True(p.Searching)

	// The armed epoch clears the search exactly once
	req.True(s.ClearSearchingIfEpoch(id, epoch))
	p, _ = s.Get(id)
	req.False(p.Searching)
	req.False(s.ClearSearchingIfEpoch(id, epoch))
}

func TestStore_Reset_Discards_State_And_Dissolves_Pairing(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()
	a, b := registeredSearchingPair(t, s)
	_, _, err := s.PairIfAvailable(a, b)
	req.NoError(err)

	before, _ := s.Get(a)
	fresh := s.Reset(a)

	req.Equal(domain.StageNew, fresh.Stage)
	req.Equal(domain.RoleUnset, fresh.Role)
	req.False(fresh.InSession())
	req.Greater(fresh.Epoch, before.Epoch)

	// The former partner is released too
	pb, _ := s.Get(b)
	req.False(pb.InSession())
}

func TestStore_No_Double_Booking_Under_Concurrency(t *testing.T) {
	req := require.New(t)
	s := NewParticipantStore()

	// Given one mentor and many mentees all racing to pair with them
	mentor := uuid.NewString()
	_, err := s.Register(mentor)
	req.NoError(err)
	req.NoError(s.SetSearching(mentor, true))

	const racers = 16
	mentees := make([]string, racers)
	for i := range mentees {
		mentees[i] = uuid.NewString()
		_, err := s.Register(mentees[i])
		req.NoError(err)
		req.NoError(s.SetSearching(mentees[i], true))
	}

	var wg sync.WaitGroup
	wins := make(chan string, racers)
	for _, mentee := range mentees {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, _, err := s.PairIfAvailable(id, mentor); err == nil {
				wins <- id
			}
		}(mentee)
	}
	wg.Wait()
	close(wins)

	// Then exactly one mentee won and the links are symmetric
	var winners []string
	for id := range wins {
		winners = append(winners, id)
	}
	req.Len(winners, 1)

	pm, _ := s.Get(mentor)
	pw, _ := s.Get(winners[0])
	req.Equal(winners[0], pm.Partner)
	req.Equal(mentor, pw.Partner)
}

func registeredSearchingPair(t *testing.T, s *ParticipantStore) (string, string) {
	t.Helper()
	req := require.New(t)

	a, b := uuid.NewString(), uuid.NewString()
	for _, id := range []string{a, b} {
		_, err := s.Register(id)
		req.NoError(err)
		req.NoError(s.SetSearching(id, true))
	}
	return a, b
}
