// Package app provides the orchestration layer for the eosbridge process.
//
// # Overview
//
// This package wires together configuration, logging, metrics and the console
// session. It is the composition root: every dependency is built here and
// handed to the packages that use it.
//
// # Architecture
//
//  1. Load configuration (TOML file plus EOSBRIDGE_* environment)
//  2. Build a slog text logger on stderr, at debug level with -debug
//  3. Create the state.Store and attach the notification logger
//  4. Create the eos.Session
//  5. Run the session, and the metrics endpoint if configured, in an errgroup
//  6. Start the heartbeat goroutine
//  7. Block until the context is cancelled or a member fails
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml + env
//	       ├─────> state.Store{}        OnChange logs cue changes
//	       ├─────> eos.New()            Console session
//	       ├─────> session.Run()        Event loop (errgroup)
//	       ├─────> serveMetrics()       /metrics (errgroup, optional)
//	       └─────> StartHeartbeat()     Periodic status line
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Metrics registration failure
//   - Metrics listener failure (address in use)
//
// Console errors are never fatal. The session logs them and keeps retrying
// on its reconnect interval.
//
// # Options
//
//   - ConfigPath: config.toml location (default: ~/.config/eosbridge/config.toml)
//   - Debug: debug logging and per-message trace
//   - Send: command line typed once the first connection is up
//   - HeartbeatEvery: status log interval (default: 1 minute)
package app
