//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"socrates/domain"
)

// NotificationChannel delivers outbound messages to a participant.
// Implementations render domain.OutboundMessage into their own wire format.
// Send failures are logged by the caller; the engine never retries them and
// never rolls state back because of them.
type NotificationChannel interface {
	Send(ctx context.Context, recipientID string, msg domain.OutboundMessage) error
}

// Dispatcher accepts unwrapped inbound events from an event source.
type Dispatcher interface {
	Dispatch(ev domain.Event)
}

// EventHandler consumes one inbound event end to end.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev domain.Event)
}

// RelayRecord is one relayed message as written to the journal.
type RelayRecord struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Content   string `json:"content"`
	Lang      string `json:"lang"`
	At        int64  `json:"at"`
}

// RelayJournal records relayed messages for operator inspection.
// The journal is observational only: matchmaking state is never read back
// from it.
type RelayJournal interface {
	Record(rec RelayRecord) error
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
