// Package runtime moves inbound events from the boundary into the engine.
// It owns the buffered event channel and the supervised worker pool; no
// matchmaking rules live here.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"socrates/contract"
	"socrates/domain"
	"socrates/observability"
	"socrates/runtime/workers"
)

var _ contract.Dispatcher = (*Orchestrator)(nil)

type Orchestrator struct {
	log               *slog.Logger
	supervisor        contract.ISupervisor
	handler           contract.EventHandler
	stats             *observability.EngineStats
	events            chan domain.Event
	numWorkers        int
	heartbeatInterval time.Duration
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor *workers.Supervisor,
	handler contract.EventHandler,
	stats *observability.EngineStats,
	numWorkers, bufferSize int,
	heartbeatInterval time.Duration,
) *Orchestrator {
	return &Orchestrator{
		log:               log,
		supervisor:        supervisor,
		handler:           handler,
		stats:             stats,
		events:            make(chan domain.Event, bufferSize),
		numWorkers:        numWorkers,
		heartbeatInterval: heartbeatInterval,
	}
}

// Dispatch queues one inbound event for the worker pool. The webhook must
// answer its provider quickly, so a full buffer drops the event with a
// warning instead of blocking the transport.
func (o *Orchestrator) Dispatch(ev domain.Event) {
	select {
	case o.events <- ev:
	default:
		o.log.Warn("Event buffer full, dropping event", "sender", ev.SenderID)
	}
}

// Start registers the engine workers and the heartbeat with the supervisor
// and blocks until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) error {
	for i := 0; i < o.numWorkers; i++ {
		o.supervisor.Add(workers.NewEngineWorker(o.events, o.handler, o.log))
	}
	o.supervisor.Add(workers.NewHeartbeatWorker(o.log, o.stats, o.heartbeatInterval))

	o.log.Info("Starting orchestrator and all supervised workers", "workers", o.numWorkers)
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervision context and lets workers drain.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
