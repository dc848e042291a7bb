// Package repositories persists relayed-message records in BadgerDB.
// The journal is append-only and read back only by the viewer tooling;
// matchmaking state is never restored from it.
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"socrates/contract"
)

var _ contract.RelayJournal = (*RelayJournal)(nil)

type RelayJournal struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRelayJournal(db *badger.DB, log *slog.Logger) *RelayJournal {
	return &RelayJournal{db: db, log: log}
}

// Record appends one relayed message. The key is
// "relay:{session}:{timestamp_padded}:{id}" so a prefix scan per session
// comes back in chronological order; 19-digit zero padding keeps the
// lexicographic and numeric orders aligned, and the record id disambiguates
// two messages landing on the same nanosecond.
func (j *RelayJournal) Record(rec contract.RelayRecord) error {
	key := fmt.Sprintf("relay:%s:%019d:%s", rec.SessionID, rec.At, rec.ID)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// List returns up to limit records, oldest first. With an empty sessionID it
// walks the whole journal; limit <= 0 means no cap.
func (j *RelayJournal) List(sessionID string, limit int) ([]contract.RelayRecord, error) {
	prefix := []byte("relay:")
	if sessionID != "" {
		prefix = []byte("relay:" + sessionID + ":")
	}

	var records []contract.RelayRecord
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) == limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var rec contract.RelayRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}
