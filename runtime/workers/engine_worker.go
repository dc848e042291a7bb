package workers

import (
	"context"
	"log/slog"

	"socrates/contract"
	"socrates/domain"
)

// Ensure *EngineWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*EngineWorker)(nil)

// EngineWorker pulls inbound events off the orchestrator's channel and runs
// them through the conversation engine. Several instances consume the same
// channel; the store's atomic operations keep concurrent handling correct.
type EngineWorker struct {
	events  <-chan domain.Event
	handler contract.EventHandler
	log     *slog.Logger
}

func NewEngineWorker(events <-chan domain.Event, handler contract.EventHandler, log *slog.Logger) *EngineWorker {
	return &EngineWorker{events: events, handler: handler, log: log}
}

func (w *EngineWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case ev, ok := <-w.events:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handler.HandleEvent(ctx, ev)
		}
	}
}
