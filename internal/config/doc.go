// Package config loads the bridge configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/eosbridge/config.toml (default)
//  3. If the config file doesn't exist, start from Default()
//  4. Apply EOSBRIDGE_* environment overrides
//  5. Validate
//
// # TOML Format
//
//	host = "192.168.1.20"      # console address; empty disables sending
//	port = 3032                # Eos OSC TCP port
//	user_id = 1                # console user to follow, -1 for any user
//	use_slip = false           # OSC 1.1 SLIP framing instead of length headers
//	max_wheels = 50            # highest wheel slot tracked
//	wheels_per_cat = 10        # wheels published per category
//	max_softkeys = 12
//	num_labels = 0             # macro/group labels requested after each resync
//	reconnect_interval = "5s"
//	wheel_quiet_period = "100ms"
//	metrics_addr = ":9464"     # empty disables the Prometheus endpoint
//	debug = false
//
// `framing = "slip"` is accepted as an alternative to use_slip.
//
// # Environment
//
// Every field can be overridden with an EOSBRIDGE_ variable, parsed with
// github.com/caarlos0/env: EOSBRIDGE_HOST, EOSBRIDGE_PORT, EOSBRIDGE_USER_ID,
// EOSBRIDGE_FRAMING, EOSBRIDGE_MAX_WHEELS, EOSBRIDGE_WHEELS_PER_CAT,
// EOSBRIDGE_MAX_SOFTKEYS, EOSBRIDGE_NUM_LABELS, EOSBRIDGE_RECONNECT_INTERVAL,
// EOSBRIDGE_WHEEL_QUIET_PERIOD, EOSBRIDGE_METRICS_ADDR, EOSBRIDGE_DEBUG.
//
// # Immutability
//
// Config is a plain value. A session copies it at construction and never looks
// at it again; changing the host or user id means building a new session.
package config
