package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"socrates/domain"
	"socrates/mocks"
	"socrates/observability"
	"socrates/runtime/workers"
)

func TestOrchestrator_Dispatch_Reaches_The_Worker_Pool(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handled := make(chan domain.Event, 1)
	handler := mocks.NewMockEventHandler(ctrl)
	handler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev domain.Event) {
		handled <- ev
	}).Times(1)

	log := slog.Default()
	o := NewOrchestrator(log, workers.NewSupervisor(log), handler,
		observability.NewEngineStats(), 2, 16, time.Hour)

	done := make(chan struct{})
	go func() {
		_ = o.Start(context.Background())
		close(done)
	}()

	o.Dispatch(domain.Event{SenderID: "alice", Kind: domain.EventText, Payload: "get started"})

	select {
	case ev := <-handled:
		req.Equal("alice", ev.SenderID)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatched event never reached a worker")
	}

	o.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("orchestrator did not shut down")
	}
}

func TestOrchestrator_Full_Buffer_Drops_Instead_Of_Blocking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := slog.Default()
	// No workers are running, so the one-slot buffer fills immediately
	o := NewOrchestrator(log, workers.NewSupervisor(log), mocks.NewMockEventHandler(ctrl),
		observability.NewEngineStats(), 0, 1, time.Hour)

	finished := make(chan struct{})
	go func() {
		o.Dispatch(domain.Event{SenderID: "a"})
		o.Dispatch(domain.Event{SenderID: "b"})
		o.Dispatch(domain.Event{SenderID: "c"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full buffer")
	}
}
