package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"socrates/domain"
	"socrates/mocks"
)

func TestEngineWorker_Hands_Events_To_The_Handler(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := make(chan domain.Event, 1)
	handled := make(chan domain.Event, 1)

	handler := mocks.NewMockEventHandler(ctrl)
	handler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev domain.Event) {
		handled <- ev
	}).Times(1)

	worker := NewEngineWorker(events, handler, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	want := domain.Event{SenderID: "alice", Kind: domain.EventText, Payload: "hi"}
	events <- want

	select {
	case got := <-handled:
		req.Equal(want.SenderID, got.SenderID)
		req.Equal(want.Payload, got.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("event was never handled")
	}

	cancel()
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

func TestEngineWorker_Stops_On_Closed_Channel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := make(chan domain.Event)
	close(events)

	worker := NewEngineWorker(events, mocks.NewMockEventHandler(ctrl), slog.Default())
	req.NoError(worker.Run(context.Background()))
}
