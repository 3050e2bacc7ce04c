// Package eos keeps a session with an ETC Eos console over OSC/TCP.
//
// # Overview
//
// A Session dials the console (port 3032 by default), keeps the connection
// alive, decodes the console's /eos/out telemetry into a state.Store and
// exposes a command API. Outbound commands are fire-and-forget.
//
// # Concurrency Model
//
// Run executes a single event loop that owns the connection, the route table,
// the wheel aggregator and every store write. Everything that blocks happens
// on helper goroutines that only post closures to the loop:
//
//   - the dial goroutine posts the dial result
//   - the read goroutine posts decoded messages and the final read error
//   - the reconnect timer posts a connect attempt
//   - the wheel debounce timer posts the aggregation pass
//
// Events carry the connection id or timer generation they were created for,
// so a late event from a superseded connection or timer is discarded.
//
// # Connection Lifecycle
//
//	Disconnected ──dial──> Connecting ──ok──> Connected ──read error/EOF──> Disconnected
//
// Entering Connected clears the store and sends /eos/reset then
// /eos/user=<id>, followed by /eos/get/macro/<n> and /eos/get/group/<n> when
// label polling is configured. Entering Disconnected clears the store. The
// reconnect timer redials every ReconnectInterval while disconnected. Transport
// errors are logged at warn level only while connected.
//
// # Routes
//
// Inbound paths are matched against an ordered table, first match wins:
//
//	/eos/out/{active,pending,previous}/cue/<list>/<num>   cue identity
//	/eos/out/{active,pending,previous}/cue/text           cue text (see ParseCueText)
//	/eos/out/{pending,previous}/cue                       cleared (no arguments)
//	/eos/out/show/name                                    show name
//	/eos/out/event/show/{loaded,cleared}                  resync
//	/eos/out/softkey/<n>                                  softkey label
//	/eos/out/user/<id>/cmd                                command line, filtered by user
//	/eos/out/active/chan                                  selection change: resync
//	/eos/out/active/wheel/<n>                             encoder wheel sample
//	/eos/out/get/{macro,group}/<n>/list/<i>/<count>       polled label
//
// Anything else is ignored.
//
// # Wheels
//
// Selecting a fixture makes the console send a burst of wheel messages with no
// terminator. Each sample is stored at once; the category aggregates
// (intensity, focus, color, image, form, shutter) are rebuilt after the burst
// has been quiet for WheelQuietPeriod.
//
// # Metrics
//
// With WithRegisterer the session exports eosbridge_* Prometheus counters for
// routed messages, decode errors, sent and dropped commands, dial attempts,
// resyncs and aggregation passes, plus a connection state gauge.
package eos
