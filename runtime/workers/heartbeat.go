package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"socrates/contract"
	"socrates/observability"
)

var _ contract.Worker = (*HeartbeatWorker)(nil)

// HeartbeatWorker periodically logs engine counters together with the
// process's own memory and CPU usage.
type HeartbeatWorker struct {
	log      *slog.Logger
	stats    *observability.EngineStats
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, stats *observability.EngineStats, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, stats: stats, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap := w.stats.Snapshot()

			var rss uint64
			var cpu float64
			if memInfo, err := proc.MemoryInfo(); err == nil {
				rss = memInfo.RSS
			}
			if percent, err := proc.CPUPercent(); err == nil {
				cpu = percent
			}

			w.log.Info("heartbeat",
				"events", snap.EventsConsumed,
				"matches", snap.MatchesMade,
				"sessions_ended", snap.SessionsEnded,
				"relayed", snap.MessagesRelayed,
				"timeouts", snap.TimeoutsFired,
				"active_sessions", snap.ActiveSessions,
				"rss_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}
