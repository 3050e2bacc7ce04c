package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/eosbridge/internal/state"
)

const defaultHeartbeatInterval = time.Minute

// StartHeartbeat launches a background goroutine that logs a one-line summary
// of the store at a fixed cadence. It returns immediately.
func StartHeartbeat(ctx context.Context, store *state.Store, logger *slog.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				heartbeat(logger, store.Snapshot())
			}
		}
	}()
}

func heartbeat(logger *slog.Logger, snap state.Snapshot) {
	active := snap.Cue(state.CueActive)
	pending := snap.Cue(state.CuePending)
	logger.Info("status",
		"state", snap.Connection,
		"show", snap.Get(state.KeyShowName),
		"active_cue", cueLabel(active),
		"pending_cue", cueLabel(pending),
		"values", len(snap.Values),
	)
}

func cueLabel(c state.CueReference) string {
	if c.Number == "" {
		return "-"
	}
	return c.List + "/" + c.Number
}
