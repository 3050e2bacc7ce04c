package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// WildcardUserID makes the bridge follow the command line of every console user.
const WildcardUserID = "-1"

// Framing modes accepted in the config file.
const (
	FramingLength = "length"
	FramingSLIP   = "slip"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the immutable input of a bridge session.
type Config struct {
	Host   string
	Port   int
	UserID string
	// Framing is FramingLength (OSC 1.0) or FramingSLIP (OSC 1.1).
	Framing string

	// Ceilings. The console never reports true counts for these.
	MaxWheels         int
	WheelsPerCategory int
	MaxSoftkeys       int
	NumLabels         int

	ReconnectInterval time.Duration
	WheelQuietPeriod  time.Duration

	MetricsAddr string
	Debug       bool
}

const (
	defaultConfigPath        = "~/.config/eosbridge/config.toml"
	defaultPort              = 3032
	defaultUserID            = "1"
	defaultMaxWheels         = 50
	defaultWheelsPerCategory = 10
	defaultMaxSoftkeys       = 12
	defaultReconnect         = 5 * time.Second
	defaultWheelQuiet        = 100 * time.Millisecond
)

// Default returns the configuration used when no file or environment is present.
func Default() Config {
	return Config{
		Port:              defaultPort,
		UserID:            defaultUserID,
		Framing:           FramingLength,
		MaxWheels:         defaultMaxWheels,
		WheelsPerCategory: defaultWheelsPerCategory,
		MaxSoftkeys:       defaultMaxSoftkeys,
		ReconnectInterval: defaultReconnect,
		WheelQuietPeriod:  defaultWheelQuiet,
	}
}

type fileConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	UserID            any    `toml:"user_id"`
	UseSLIP           bool   `toml:"use_slip"`
	Framing           string `toml:"framing"`
	MaxWheels         int    `toml:"max_wheels"`
	WheelsPerCategory int    `toml:"wheels_per_cat"`
	MaxSoftkeys       int    `toml:"max_softkeys"`
	NumLabels         int    `toml:"num_labels"`
	ReconnectInterval string `toml:"reconnect_interval"`
	WheelQuietPeriod  string `toml:"wheel_quiet_period"`
	MetricsAddr       string `toml:"metrics_addr"`
	Debug             bool   `toml:"debug"`
}

// envConfig overrides file values. Unset variables leave the pointer nil.
type envConfig struct {
	Host              *string        `env:"HOST"`
	Port              *int           `env:"PORT"`
	UserID            *string        `env:"USER_ID"`
	Framing           *string        `env:"FRAMING"`
	MaxWheels         *int           `env:"MAX_WHEELS"`
	WheelsPerCategory *int           `env:"WHEELS_PER_CAT"`
	MaxSoftkeys       *int           `env:"MAX_SOFTKEYS"`
	NumLabels         *int           `env:"NUM_LABELS"`
	ReconnectInterval *time.Duration `env:"RECONNECT_INTERVAL"`
	WheelQuietPeriod  *time.Duration `env:"WHEEL_QUIET_PERIOD"`
	MetricsAddr       *string        `env:"METRICS_ADDR"`
	Debug             *bool          `env:"DEBUG"`
}

const envPrefix = "EOSBRIDGE_"

// Load reads the TOML config at path (or the default path), applies EOSBRIDGE_*
// environment overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := applyFile(&cfg, bytes); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, data []byte) error {
	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.Host = strings.TrimSpace(raw.Host)
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	switch v := raw.UserID.(type) {
	case nil:
	case int64:
		cfg.UserID = strconv.FormatInt(v, 10)
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cfg.UserID = trimmed
		}
	default:
		return fmt.Errorf("parse config: user_id has type %T: %w", v, ErrInvalidConfig)
	}
	if raw.UseSLIP {
		cfg.Framing = FramingSLIP
	}
	if framing := strings.TrimSpace(raw.Framing); framing != "" {
		cfg.Framing = strings.ToLower(framing)
	}
	setIfPositive(&cfg.MaxWheels, raw.MaxWheels)
	setIfPositive(&cfg.WheelsPerCategory, raw.WheelsPerCategory)
	setIfPositive(&cfg.MaxSoftkeys, raw.MaxSoftkeys)
	cfg.NumLabels = raw.NumLabels

	var err error
	if cfg.ReconnectInterval, err = parseDuration("reconnect_interval", raw.ReconnectInterval, cfg.ReconnectInterval); err != nil {
		return err
	}
	if cfg.WheelQuietPeriod, err = parseDuration("wheel_quiet_period", raw.WheelQuietPeriod, cfg.WheelQuietPeriod); err != nil {
		return err
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	cfg.Debug = raw.Debug
	return nil
}

func applyEnv(cfg *Config) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if e.Host != nil {
		cfg.Host = strings.TrimSpace(*e.Host)
	}
	if e.Port != nil {
		cfg.Port = *e.Port
	}
	if e.UserID != nil {
		cfg.UserID = strings.TrimSpace(*e.UserID)
	}
	if e.Framing != nil {
		cfg.Framing = strings.ToLower(strings.TrimSpace(*e.Framing))
	}
	if e.MaxWheels != nil {
		cfg.MaxWheels = *e.MaxWheels
	}
	if e.WheelsPerCategory != nil {
		cfg.WheelsPerCategory = *e.WheelsPerCategory
	}
	if e.MaxSoftkeys != nil {
		cfg.MaxSoftkeys = *e.MaxSoftkeys
	}
	if e.NumLabels != nil {
		cfg.NumLabels = *e.NumLabels
	}
	if e.ReconnectInterval != nil {
		cfg.ReconnectInterval = *e.ReconnectInterval
	}
	if e.WheelQuietPeriod != nil {
		cfg.WheelQuietPeriod = *e.WheelQuietPeriod
	}
	if e.MetricsAddr != nil {
		cfg.MetricsAddr = strings.TrimSpace(*e.MetricsAddr)
	}
	if e.Debug != nil {
		cfg.Debug = *e.Debug
	}
	return nil
}

// Validate reports the first invalid field. An empty Host is valid: the bridge
// then runs without a target and drops every command.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range: %w", c.Port, ErrInvalidConfig)
	}
	if c.UserID != WildcardUserID {
		n, err := strconv.Atoi(c.UserID)
		if err != nil || n < 0 {
			return fmt.Errorf("user_id %q must be -1 or a non-negative integer: %w", c.UserID, ErrInvalidConfig)
		}
	}
	if c.Framing != FramingLength && c.Framing != FramingSLIP {
		return fmt.Errorf("framing %q must be %q or %q: %w", c.Framing, FramingLength, FramingSLIP, ErrInvalidConfig)
	}
	for name, v := range map[string]int{
		"max_wheels":     c.MaxWheels,
		"wheels_per_cat": c.WheelsPerCategory,
		"max_softkeys":   c.MaxSoftkeys,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d: %w", name, v, ErrInvalidConfig)
		}
	}
	if c.NumLabels < 0 {
		return fmt.Errorf("num_labels must not be negative, got %d: %w", c.NumLabels, ErrInvalidConfig)
	}
	if c.ReconnectInterval <= 0 || c.WheelQuietPeriod <= 0 {
		return fmt.Errorf("intervals must be positive: %w", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the console's host:port, or "" when no host is configured.
func (c Config) Addr() string {
	if strings.TrimSpace(c.Host) == "" {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MatchesUser reports whether console user id should drive the command line.
func (c Config) MatchesUser(id string) bool {
	return c.UserID == WildcardUserID || c.UserID == id
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
