package repositories

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"socrates/contract"
)

func newTestJournal(t *testing.T) *RelayJournal {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRelayJournal(db, slog.Default())
}

func record(session string, at int64, content string) contract.RelayRecord {
	return contract.RelayRecord{
		ID:        uuid.NewString(),
		SessionID: session,
		From:      "a",
		To:        "b",
		Content:   content,
		Lang:      "en",
		At:        at,
	}
}

func TestJournal_Record_And_List_Round_Trip(t *testing.T) {
	req := require.New(t)
	journal := newTestJournal(t)

	rec := record("s1", 100, "hello")
	req.NoError(journal.Record(rec))

	records, err := journal.List("s1", 0)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal(rec, records[0])
}

func TestJournal_List_Is_Chronological(t *testing.T) {
	req := require.New(t)
	journal := newTestJournal(t)

	// Written out of order on purpose
	req.NoError(journal.Record(record("s1", 300, "third")))
	req.NoError(journal.Record(record("s1", 100, "first")))
	req.NoError(journal.Record(record("s1", 200, "second")))

	records, err := journal.List("s1", 0)
	req.NoError(err)
	req.Len(records, 3)
	req.Equal("first", records[0].Content)
	req.Equal("second", records[1].Content)
	req.Equal("third", records[2].Content)
}

func TestJournal_List_Filters_By_Session(t *testing.T) {
	req := require.New(t)
	journal := newTestJournal(t)

	req.NoError(journal.Record(record("s1", 100, "in s1")))
	req.NoError(journal.Record(record("s2", 100, "in s2")))

	records, err := journal.List("s1", 0)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal("in s1", records[0].Content)

	// Empty session walks everything
	all, err := journal.List("", 0)
	req.NoError(err)
	req.Len(all, 2)
}

func TestJournal_List_Honors_Limit(t *testing.T) {
	req := require.New(t)
	journal := newTestJournal(t)

	for i := 0; i < 5; i++ {
		req.NoError(journal.Record(record("s1", int64(100+i), fmt.Sprintf("msg %d", i))))
	}

	records, err := journal.List("s1", 2)
	req.NoError(err)
	req.Len(records, 2)
	req.Equal("msg 0", records[0].Content)
	req.Equal("msg 1", records[1].Content)
}
