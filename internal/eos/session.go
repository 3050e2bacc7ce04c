package eos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/eosbridge/internal/config"
	"github.com/five82/eosbridge/internal/osc"
	"github.com/five82/eosbridge/internal/state"
)

const (
	dialTimeout    = 5 * time.Second
	writeTimeout   = 2 * time.Second
	readBufferSize = 64 << 10
	eventBuffer    = 256

	// noChannel is recorded when the console reports no active channel.
	noChannel = "none"
)

var channelPattern = regexp.MustCompile(`^\s*(\d+)`)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("session already running")

// Dialer opens the transport to the console. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRegisterer registers session metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Session) { s.registerer = reg }
}

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dialer = d }
}

// WithTrace logs every inbound and outbound message at debug level.
func WithTrace(enabled bool) Option {
	return func(s *Session) { s.trace = enabled }
}

// Session keeps one console connection and the state it reports.
//
// All connection and state handling runs on the goroutine executing Run.
// Dials, socket reads and timers run elsewhere and only post work to it.
type Session struct {
	cfg        config.Config
	store      *state.Store
	codec      osc.Codec
	logger     *slog.Logger
	metrics    *Metrics
	registerer prometheus.Registerer
	dialer     Dialer
	trace      bool

	events  chan func()
	stopped chan struct{}
	running atomic.Bool
	runCtx  context.Context

	// Owned by the Run goroutine.
	conn        net.Conn
	connID      uint64
	connecting  bool
	lastChannel string
	routes      router
	wheels      *wheelAggregator
	reconnect   *reconnectTimer
}

// New builds a session for cfg. State is written to store, which may carry
// OnChange and OnVariables callbacks; a nil store gets a fresh one.
func New(cfg config.Config, store *state.Store, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := osc.NewCodec(osc.Framing(cfg.Framing))
	if err != nil {
		return nil, fmt.Errorf("init codec: %w", err)
	}
	if store == nil {
		store = &state.Store{}
	}

	s := &Session{
		cfg:     cfg,
		store:   store,
		codec:   codec,
		events:  make(chan func(), eventBuffer),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "eos")
	if s.dialer == nil {
		s.dialer = &net.Dialer{Timeout: dialTimeout}
	}
	if s.metrics, err = newMetrics(s.registerer); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	s.routes = s.buildRoutes()
	s.wheels = newWheelAggregator(cfg.WheelQuietPeriod, s.post, s.flushWheels)
	s.reconnect = newReconnectTimer(cfg.ReconnectInterval, func() { s.post(s.connect) })
	return s, nil
}

// Store returns the state store the session writes to.
func (s *Session) Store() *state.Store {
	return s.store
}

// Run connects to the console and processes events until ctx is cancelled.
// A session runs at most once.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.runCtx = ctx
	defer s.teardown()

	if s.cfg.Addr() == "" {
		s.logger.Warn("no console host configured, commands will be dropped")
	} else {
		s.logger.Info("session starting",
			"addr", s.cfg.Addr(),
			"user_id", s.cfg.UserID,
			"framing", s.codec.Framing(),
		)
	}
	s.connect()
	s.reconnect.Start()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-s.events:
			fn()
		}
	}
}

// post hands fn to the Run goroutine. It reports false once the session has stopped.
func (s *Session) post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.stopped:
		return false
	}
}

// tryPost is post without waiting for queue space.
func (s *Session) tryPost(fn func()) bool {
	select {
	case <-s.stopped:
		return false
	default:
	}
	select {
	case s.events <- fn:
		return true
	default:
		return false
	}
}

func (s *Session) teardown() {
	close(s.stopped)
	s.reconnect.Stop()
	s.wheels.Stop()
	s.connID++
	s.connecting = false
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.lastChannel = ""
	s.setConnection(state.Disconnected)
	s.clearState()
	s.logger.Info("session stopped")
}

// connect dials the console unless a connection exists or is in progress.
func (s *Session) connect() {
	addr := s.cfg.Addr()
	if addr == "" || s.conn != nil || s.connecting {
		return
	}
	s.connecting = true
	s.connID++
	id := s.connID
	s.metrics.dial()
	s.setConnection(state.Connecting)

	ctx := s.runCtx
	go func() {
		conn, err := s.dialer.DialContext(ctx, "tcp", addr)
		if !s.post(func() { s.handleDial(id, conn, err) }) && conn != nil {
			_ = conn.Close()
		}
	}()
}

func (s *Session) handleDial(id uint64, conn net.Conn, err error) {
	if id != s.connID {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	s.connecting = false
	if err != nil {
		s.transportError("dial console", err)
		s.setConnection(state.Disconnected)
		return
	}

	s.conn = conn
	go s.readLoop(id, conn, s.codec.NewDecoder())
	s.setConnection(state.Connected)
	s.logger.Info("connected to console", "addr", conn.RemoteAddr().String())
	s.resync("connected")
}

func (s *Session) readLoop(id uint64, conn net.Conn, dec osc.Decoder) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			msgs, errs := dec.Feed(buf[:n])
			if len(msgs) > 0 || len(errs) > 0 {
				if !s.post(func() { s.handleInbound(id, msgs, errs) }) {
					return
				}
			}
		}
		if err != nil {
			s.post(func() { s.handleClosed(id, err) })
			return
		}
	}
}

func (s *Session) handleClosed(id uint64, err error) {
	if id != s.connID || s.conn == nil {
		return
	}
	if errors.Is(err, io.EOF) {
		s.logger.Info("console closed the connection")
	} else {
		s.transportError("read from console", err)
	}
	_ = s.conn.Close()
	s.conn = nil
	s.wheels.Stop()
	s.lastChannel = ""
	s.setConnection(state.Disconnected)
	s.clearState()
}

// transportError logs err only while the session is connected. Repeated
// failures while offline go to debug.
func (s *Session) transportError(op string, err error) {
	if s.store.Connection() == state.Connected {
		s.logger.Warn("console transport error", "op", op, "error", err)
		return
	}
	s.logger.Debug("console transport error", "op", op, "error", err)
}

// setConnection records c and notifies when connected-ness changed.
func (s *Session) setConnection(c state.ConnectionState) {
	prev := s.store.Connection()
	if !s.store.SetConnection(c) {
		return
	}
	s.metrics.connection(c)
	if (prev == state.Connected) != (c == state.Connected) {
		s.store.NotifyChanged(state.CategoryConnected)
	}
}

func (s *Session) clearState() {
	s.store.ClearAllExceptConnection()
	s.store.NotifyChanged(
		state.CategoryPendingCue,
		state.CategoryActiveCue,
		state.CategoryPreviousCue,
		state.CategoryConnected,
		state.CategoryWheels,
		state.CategoryLabels,
	)
}

// resync drops all derived state and asks the console to send it again.
func (s *Session) resync(reason string) {
	s.metrics.resync()
	s.wheels.Stop()
	s.clearState()
	s.logger.Debug("requesting full state", "reason", reason)
	for _, msg := range resyncMessages(s.cfg.UserID, s.cfg.NumLabels) {
		s.write(msg)
	}
}

// write encodes and sends msg on the current connection. Without one the
// message is dropped.
func (s *Session) write(msg osc.Message) {
	if s.conn == nil {
		s.metrics.dropped()
		s.logger.Debug("dropping command, not connected", "path", msg.Path)
		return
	}
	frame, err := s.codec.Encode(msg)
	if err != nil {
		s.metrics.dropped()
		s.logger.Warn("dropping command", "path", msg.Path, "error", err)
		return
	}
	if s.trace {
		s.logger.Debug("osc send", "msg", msg.String())
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := s.conn.Write(frame); err != nil {
		s.metrics.dropped()
		s.transportError("write to console", err)
		// The read loop observes the close and reports the disconnect.
		_ = s.conn.Close()
		return
	}
	s.metrics.sent()
}

func (s *Session) handleInbound(id uint64, msgs []osc.Message, errs []error) {
	if id != s.connID {
		return
	}
	for _, err := range errs {
		s.metrics.decodeError()
		s.logger.Warn("dropped malformed frame", "error", err)
	}
	for _, msg := range msgs {
		if s.trace {
			s.logger.Debug("osc recv", "msg", msg.String())
		}
		name, _ := s.routes.dispatch(msg)
		s.metrics.received(name)
	}
}

func (s *Session) buildRoutes() router {
	const cueIdentity = `/cue/([\d.]+)/([\d.]+)$`
	return router{routes: []route{
		patternRoute("active_cue", `^/eos/out/active`+cueIdentity, s.handleCueIdentity(state.CueActive)),
		exactRoute("active_cue_text", "/eos/out/active/cue/text", s.handleCueText(state.CueActive)),
		patternRoute("pending_cue", `^/eos/out/pending`+cueIdentity, s.handleCueIdentity(state.CuePending)),
		exactRoute("pending_cue_text", "/eos/out/pending/cue/text", s.handleCueText(state.CuePending)),
		exactRoute("pending_cue_cleared", "/eos/out/pending/cue", s.handleCueCleared(state.CuePending)).withCondition(noArgs),
		patternRoute("previous_cue", `^/eos/out/previous`+cueIdentity, s.handleCueIdentity(state.CuePrevious)),
		exactRoute("previous_cue_text", "/eos/out/previous/cue/text", s.handleCueText(state.CuePrevious)),
		exactRoute("previous_cue_cleared", "/eos/out/previous/cue", s.handleCueCleared(state.CuePrevious)).withCondition(noArgs),
		exactRoute("show_name", "/eos/out/show/name", s.handleShowName).withCondition(oneString),
		patternRoute("show_event", `^/eos/out/event/show/(loaded|cleared)$`, s.handleShowEvent),
		patternRoute("softkey", `^/eos/out/softkey/(\d+)$`, s.handleSoftkey).withCondition(oneString),
		patternRoute("cmd", `^/eos/out/user/(\d+)/cmd$`, s.handleCommandLine).withCondition(oneString),
		exactRoute("active_chan", "/eos/out/active/chan", s.handleActiveChannel),
		patternRoute("wheel", `^/eos/out/active/wheel/(\d+)$`, s.handleWheel),
		patternRoute("label", `^/eos/out/get/(macro|group)/(\d+)/list/\d+/\d+$`, s.handleLabel),
	}}
}

func (s *Session) handleCueIdentity(slot state.CueSlot) func(osc.Message, []string) {
	return func(_ osc.Message, captures []string) {
		s.store.SetMany(map[string]string{
			state.CueKey(slot, state.FieldList):   captures[0],
			state.CueKey(slot, state.FieldNumber): captures[1],
		}, true)
		s.store.NotifyChanged(state.CueCategory(slot))
	}
}

func (s *Session) handleCueText(slot state.CueSlot) func(osc.Message, []string) {
	return func(msg osc.Message, _ []string) {
		text := msg.TextArg(0)
		values := ParseCueText(text).Values(slot)
		if slot != state.CueActive || !clearsActiveCue(text) {
			s.store.SetMany(values, true)
			return
		}
		values[state.CueKey(slot, state.FieldList)] = ""
		values[state.CueKey(slot, state.FieldNumber)] = ""
		s.store.SetMany(values, true)
		s.store.NotifyChanged(state.CategoryActiveCue)
	}
}

func (s *Session) handleCueCleared(slot state.CueSlot) func(osc.Message, []string) {
	return func(osc.Message, []string) {
		s.store.SetMany(map[string]string{
			state.CueKey(slot, state.FieldList):   "",
			state.CueKey(slot, state.FieldNumber): "",
		}, true)
		s.store.NotifyChanged(state.CueCategory(slot))
	}
}

func (s *Session) handleShowName(msg osc.Message, _ []string) {
	name, _ := msg.StringArg(0)
	s.store.SetMany(map[string]string{state.KeyShowName: name}, true)
}

func (s *Session) handleShowEvent(_ osc.Message, captures []string) {
	s.logger.Info("show event, resynchronizing", "event", captures[0])
	s.resync("show " + captures[0])
}

func (s *Session) handleSoftkey(msg osc.Message, captures []string) {
	index, err := strconv.Atoi(captures[0])
	if err != nil || index < 1 || index > s.cfg.MaxSoftkeys {
		return
	}
	label, _ := msg.StringArg(0)
	s.store.SetMany(map[string]string{state.SoftkeyKey(index): label}, true)
}

func (s *Session) handleCommandLine(msg osc.Message, captures []string) {
	if !s.cfg.MatchesUser(captures[0]) {
		return
	}
	text, _ := msg.StringArg(0)
	s.store.SetMany(map[string]string{state.KeyCommandLine: text}, true)
}

// handleActiveChannel resynchronizes whenever the selected channel changes,
// including a change to no channel at all.
func (s *Session) handleActiveChannel(msg osc.Message, _ []string) {
	channel := noChannel
	if m := channelPattern.FindStringSubmatch(msg.TextArg(0)); m != nil {
		channel = m[1]
	}
	if channel == s.lastChannel {
		return
	}
	s.store.ClearWhere(state.IsWheelKey)
	s.resync("channel " + channel)
	s.lastChannel = channel
}

func (s *Session) handleWheel(msg osc.Message, captures []string) {
	index, err := strconv.Atoi(captures[0])
	if err != nil || index < 1 || index > s.cfg.MaxWheels {
		return
	}
	value, ok := msg.FloatArg(2)
	sample := ParseWheel(index, msg.TextArg(0), msg.TextArg(1), value, ok)

	values := sample.Values()
	if param, ok := ParameterFor(sample.Label); ok {
		values[state.ParamKey(param, state.FieldStringVal)] = sample.StringVal
		values[state.ParamKey(param, state.FieldFloatVal)] = sample.FloatVal
	}
	s.store.SetMany(values, true)
	s.wheels.Touch()
}

func (s *Session) flushWheels() {
	values, total := AggregateWheels(wheelSamples(s.store, s.cfg.MaxWheels), s.cfg.WheelsPerCategory)
	s.store.SetMany(values, true)
	s.metrics.aggregated()
	s.logger.Debug("wheels aggregated", "wheels", total)
	s.store.NotifyChanged(state.CategoryWheels)
}

func (s *Session) handleLabel(msg osc.Message, captures []string) {
	n, err := strconv.Atoi(captures[1])
	if err != nil || n < 1 || n > s.cfg.NumLabels {
		return
	}
	s.store.SetMany(map[string]string{state.LabelKey(captures[0], strconv.Itoa(n)): msg.TextArg(2)}, true)
	s.store.NotifyChanged(state.CategoryLabels)
}
