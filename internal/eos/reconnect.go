package eos

import (
	"sync"
	"sync/atomic"
	"time"
)

// reconnectTimer fires tick every interval until stopped. Starting a running
// timer is a no-op.
type reconnectTimer struct {
	interval time.Duration
	tick     func()

	mu   sync.Mutex
	stop chan struct{}

	// started counts timer goroutines ever launched.
	started atomic.Uint32
}

func newReconnectTimer(interval time.Duration, tick func()) *reconnectTimer {
	return &reconnectTimer{interval: interval, tick: tick}
}

// Start launches the timer and reports whether it was not already running.
func (r *reconnectTimer) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return false
	}
	stop := make(chan struct{})
	r.stop = stop
	r.started.Add(1)

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
	return true
}

// Stop cancels the timer. Stopping a stopped timer is a no-op.
func (r *reconnectTimer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop == nil {
		return
	}
	close(r.stop)
	r.stop = nil
}

// Running reports whether the timer is active.
func (r *reconnectTimer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}
