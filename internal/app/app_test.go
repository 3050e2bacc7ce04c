package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/eosbridge/internal/state"
)

// syncBuffer is a bytes.Buffer safe for a logger goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_NoHostStopsOnCancel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var out syncBuffer

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Run(ctx, Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		LogOutput:  &out,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "no console host configured") {
		t.Fatalf("log output = %q, want a no-host warning", out.String())
	}
}

func TestRun_InvalidConfigFails(t *testing.T) {
	t.Setenv("EOSBRIDGE_FRAMING", "udp")
	err := Run(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		LogOutput:  io.Discard,
	})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run error = %v, want load config error", err)
	}
}

func TestNewLogger_DebugLevel(t *testing.T) {
	var out bytes.Buffer
	newLogger(&out, false).Debug("hidden")
	if out.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", out.String())
	}
	newLogger(&out, true).Debug("shown")
	if !strings.Contains(out.String(), "shown") {
		t.Fatalf("debug line missing at debug level: %q", out.String())
	}
}

func TestLogChange_ReportsCue(t *testing.T) {
	var store state.Store
	store.SetMany(map[string]string{
		state.CueKey(state.CuePending, state.FieldList):   "1",
		state.CueKey(state.CuePending, state.FieldNumber): "7",
		state.CueKey(state.CuePending, state.FieldLabel):  " Blackout",
	}, false)

	var out bytes.Buffer
	logChange(newLogger(&out, false), store.Snapshot(), []state.Category{state.CategoryPendingCue, state.CategoryActiveCue})

	got := out.String()
	if !strings.Contains(got, "slot=pending") || !strings.Contains(got, "cue=7") {
		t.Fatalf("log = %q, want pending cue 7", got)
	}
	if strings.Contains(got, "slot=active") {
		t.Fatalf("log = %q, empty active cue should not be reported", got)
	}
}

func TestHeartbeat_LogsSummary(t *testing.T) {
	var store state.Store
	store.SetConnection(state.Connected)
	store.SetMany(map[string]string{state.KeyShowName: "Hamlet"}, false)
	store.SetMany(map[string]string{
		state.CueKey(state.CueActive, state.FieldList):   "1",
		state.CueKey(state.CueActive, state.FieldNumber): "12",
	}, false)

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartHeartbeat(ctx, &store, slog.New(slog.NewTextHandler(&out, nil)), 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "msg=status") {
		if time.Now().After(deadline) {
			t.Fatalf("no heartbeat logged")
		}
		time.Sleep(5 * time.Millisecond)
	}
	got := out.String()
	for _, want := range []string{"state=connected", "show=Hamlet", "active_cue=1/12", "pending_cue=-"} {
		if !strings.Contains(got, want) {
			t.Fatalf("heartbeat = %q, want %q", got, want)
		}
	}
}
