package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/five82/eosbridge/internal/config"
	"github.com/five82/eosbridge/internal/eos"
	"github.com/five82/eosbridge/internal/state"
)

// Options configure the bridge process.
type Options struct {
	ConfigPath string
	Debug      bool
	// Send is typed on the console command line once the first connection is up.
	Send string
	// HeartbeatEvery is the status log interval; zero uses the default.
	HeartbeatEvery time.Duration
	// LogOutput receives log lines; nil means stderr.
	LogOutput io.Writer
}

const shutdownTimeout = 3 * time.Second

// Run loads configuration and runs the console session until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Debug {
		cfg.Debug = true
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(out, cfg.Debug)

	var reg *prometheus.Registry
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	var session *eos.Session
	var sendOnce sync.Once
	store := &state.Store{}
	store.OnChange = func(categories ...state.Category) {
		logChange(logger, store.Snapshot(), categories)
		if opts.Send == "" || store.Connection() != state.Connected {
			return
		}
		sendOnce.Do(func() { session.CommandLine(opts.Send, false, false) })
	}

	sessionOpts := []eos.Option{eos.WithLogger(logger), eos.WithTrace(cfg.Debug)}
	if reg != nil {
		sessionOpts = append(sessionOpts, eos.WithRegisterer(reg))
	}
	session, err = eos.New(cfg, store, sessionOpts...)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return session.Run(ctx) })
	if reg != nil {
		g.Go(func() error { return serveMetrics(ctx, cfg.MetricsAddr, reg, logger) })
	}
	StartHeartbeat(ctx, store, logger, opts.HeartbeatEvery)
	return g.Wait()
}

func newLogger(out io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// logChange reports state notifications in the terms an operator reads.
func logChange(logger *slog.Logger, snap state.Snapshot, categories []state.Category) {
	for _, c := range categories {
		switch c {
		case state.CategoryConnected:
			logger.Debug("connection changed", "state", snap.Connection)
		case state.CategoryActiveCue, state.CategoryPendingCue, state.CategoryPreviousCue:
			slot := cueSlot(c)
			cue := snap.Cue(slot)
			if cue.Number == "" {
				continue
			}
			logger.Info("cue changed",
				"slot", slot,
				"list", cue.List,
				"cue", cue.Number,
				"label", cue.Label,
			)
		case state.CategoryWheels:
			logger.Debug("wheels updated")
		case state.CategoryLabels:
			logger.Debug("labels updated")
		}
	}
}

func cueSlot(c state.Category) state.CueSlot {
	switch c {
	case state.CategoryActiveCue:
		return state.CueActive
	case state.CategoryPendingCue:
		return state.CuePending
	default:
		return state.CuePrevious
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics: %w", err)
		}
		return nil
	}
}
