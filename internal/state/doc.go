// Package state holds the console state tracked by an eos session.
//
// # Overview
//
// Store is the single owner of everything the bridge knows about the console:
// the connection state, the active/pending/previous cue references, the command
// line, the show name, softkey labels, encoder wheel samples and the values
// derived from them. Every other package writes through Store's mutation API.
//
// # Keys
//
// Values are strings addressed by flat keys, the same names the feedback layer
// binds to (cue_active_num, softkey_label_3, wheel_floatval_7, ...). Use the
// helpers in keys.go rather than formatting keys by hand.
//
// # Concurrency Model
//
// The session event loop is the only writer. Readers (the feedback layer, the
// CLI) may call Get and Snapshot from any goroutine; the store uses a
// sync.RWMutex and Snapshot returns a cloned map, so a snapshot never changes
// under its holder.
//
// # Notification
//
// Two callbacks connect the store to the outside:
//
//   - OnVariables receives values written with publish=true, and a blank value
//     for every key removed by a clear, so bound variables never go stale.
//   - OnChange receives the categories passed to NotifyChanged ("active_cue",
//     "connected", ...). The store never decides on its own that a category
//     changed; the session does.
//
// Callbacks run outside the lock and on the writer's goroutine.
//
// # Clearing
//
// ClearAllExceptConnection empties every value but leaves the connection state
// alone. The session calls it on disconnect and before every resync.
package state
