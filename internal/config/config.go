package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantarick/Simple-Takeaway-Service-Monitor/internal/shelf"
)

// Default values for the monitor configuration.
const (
	DefaultHTTPPort        = 8080
	DefaultIntakeBuffer    = 128
	DefaultTargetCapacity  = 15
	DefaultOverflowCap     = 20
	DefaultCourierMinDelay = 20 * time.Second
	DefaultCourierMaxDelay = 100 * time.Second
)

// Config holds the monitor configuration parsed from config.yaml.
type Config struct {
	// HTTPPort is the port the REST API, WebSocket hub and metrics endpoint
	// listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error. Default info.
	// Hot-reloadable.
	LogLevel string `yaml:"log_level"`

	// Auth configures intake authentication.
	Auth AuthConfig `yaml:"auth"`

	// Intake controls the order intake channel.
	Intake IntakeConfig `yaml:"intake"`

	// Shelves sets the per-shelf capacities. Changing them requires a
	// restart.
	Shelves ShelvesConfig `yaml:"shelves"`

	// Courier bounds the simulated pickup delay. Hot-reloadable.
	Courier CourierConfig `yaml:"courier"`
}

// AuthConfig controls client authentication on the intake endpoint.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected
	// API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from. Defaults to
	// "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default
// "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// IntakeConfig controls the order intake channel.
type IntakeConfig struct {
	// Buffer is the intake queue depth (default 128).
	Buffer int `yaml:"buffer"`
}

// ShelvesConfig sets how many orders each shelf holds.
type ShelvesConfig struct {
	Hot      int `yaml:"hot"`
	Cold     int `yaml:"cold"`
	Frozen   int `yaml:"frozen"`
	Overflow int `yaml:"overflow"`
}

// Capacities returns the capacities keyed by shelf kind.
func (s ShelvesConfig) Capacities() map[shelf.Kind]int {
	return map[shelf.Kind]int{
		shelf.Hot:      s.Hot,
		shelf.Cold:     s.Cold,
		shelf.Frozen:   s.Frozen,
		shelf.Overflow: s.Overflow,
	}
}

// CourierConfig bounds the simulated courier pickup delay.
type CourierConfig struct {
	// MinDelay and MaxDelay bound the uniformly random pickup delay.
	// Defaults: 20s and 100s.
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		HTTPPort: DefaultHTTPPort,
		LogLevel: "info",
		Intake:   IntakeConfig{Buffer: DefaultIntakeBuffer},
		Shelves: ShelvesConfig{
			Hot:      DefaultTargetCapacity,
			Cold:     DefaultTargetCapacity,
			Frozen:   DefaultTargetCapacity,
			Overflow: DefaultOverflowCap,
		},
		Courier: CourierConfig{
			MinDelay: DefaultCourierMinDelay,
			MaxDelay: DefaultCourierMaxDelay,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d is out of range [1, 65535]", cfg.HTTPPort)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch cfg.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("auth.mode %q unknown: want apikey|none", cfg.Auth.Mode)
	}
	if cfg.Intake.Buffer <= 0 {
		return fmt.Errorf("intake.buffer must be positive")
	}
	for k, c := range cfg.Shelves.Capacities() {
		if c <= 0 {
			return fmt.Errorf("shelves.%s capacity must be positive", k)
		}
	}
	if cfg.Courier.MinDelay <= 0 {
		return fmt.Errorf("courier.min_delay must be positive")
	}
	if cfg.Courier.MaxDelay <= cfg.Courier.MinDelay {
		return fmt.Errorf("courier.max_delay must be greater than min_delay")
	}
	return nil
}

// ParseLevel converts a config log level string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level %q unknown: want debug|info|warn|error", s)
	}
}
