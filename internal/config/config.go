package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/temp-monitor/internal/domain/alert"
)

// Config holds monitor settings shared between CLI flags and the optional
// YAML settings file. Flag values override file values, which override defaults.
type Config struct {
	// Threshold is the temperature in °C below which alerts are considered.
	Threshold float64 `yaml:"threshold"`
	// CooldownSeconds is the minimum time between two consecutive alerts.
	CooldownSeconds int `yaml:"cooldown_seconds"`
	// WindowSeconds is the trailing interval over which readings are averaged.
	WindowSeconds int `yaml:"window_seconds"`
	// Message is the text spoken on the cast devices.
	Message string `yaml:"message"`
	// NightStartHour is the hour [0,23] at which alert suppression begins.
	NightStartHour int `yaml:"night_start_hour"`
	// NightEndHour is the hour [0,23] at which alert suppression ends (exclusive).
	NightEndHour int `yaml:"night_end_hour"`
	// Devices lists Chromecast friendly names to alert; empty means all devices.
	Devices []string `yaml:"devices"`
	// DiscoveryTimeoutSeconds bounds Chromecast discovery.
	DiscoveryTimeoutSeconds int `yaml:"discovery_timeout_seconds"`
	// LockFile is the advisory lock path guarding against overlapping cron ticks.
	LockFile string `yaml:"lock_file"`
	// LogLevel is the minimum level for log output (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultThreshold is the alerting threshold in °C.
	DefaultThreshold = 8.0

	// DefaultCooldownSeconds is the minimum spacing between alerts.
	DefaultCooldownSeconds = 3600

	// DefaultWindowSeconds is the trailing averaging window.
	DefaultWindowSeconds = 60

	// DefaultMessage is the spoken alert text.
	DefaultMessage = "Temperature below threshold"

	// DefaultNightStartHour opens the suppression window at 21:00.
	DefaultNightStartHour = 21

	// DefaultNightEndHour closes the suppression window before 07:00.
	DefaultNightEndHour = 7

	// DefaultDiscoveryTimeoutSeconds bounds Chromecast discovery.
	DefaultDiscoveryTimeoutSeconds = 30

	// DefaultLockFilename is the lock file name placed under the temp directory.
	DefaultLockFilename = "temp-monitor.lock"

	// DefaultFilePermissions is the file permission for saved settings.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// DefaultLockFile returns the default lock file path under the OS temp directory.
func DefaultLockFile() string {
	return filepath.Join(os.TempDir(), DefaultLockFilename)
}

// Default returns a configuration populated with every documented default.
func Default() *Config {
	return &Config{
		Threshold:               DefaultThreshold,
		CooldownSeconds:         DefaultCooldownSeconds,
		WindowSeconds:           DefaultWindowSeconds,
		Message:                 DefaultMessage,
		NightStartHour:          DefaultNightStartHour,
		NightEndHour:            DefaultNightEndHour,
		DiscoveryTimeoutSeconds: DefaultDiscoveryTimeoutSeconds,
		LockFile:                DefaultLockFile(),
		LogLevel:                "info",
	}
}

// Load reads settings from the provided YAML path on top of the defaults
// and validates the result.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks documented ranges and fills empty optional fields with defaults.
// Violations belong to the invalid-configuration taxonomy: the process must
// exit non-zero before any storage access.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := alert.ValidateConfig(
		cfg.Threshold,
		cfg.Cooldown(),
		cfg.NightStartHour,
		cfg.NightEndHour,
	); err != nil {
		return err
	}

	if cfg.WindowSeconds <= 0 {
		return fmt.Errorf("window must be positive, got %d: %w",
			cfg.WindowSeconds, alert.ErrInvalidConfiguration)
	}

	if cfg.DiscoveryTimeoutSeconds <= 0 {
		return fmt.Errorf("discovery timeout must be positive, got %d: %w",
			cfg.DiscoveryTimeoutSeconds, alert.ErrInvalidConfiguration)
	}

	if cfg.Message == "" {
		cfg.Message = DefaultMessage
	}

	if cfg.LockFile == "" {
		cfg.LockFile = DefaultLockFile()
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return nil
}

// Cooldown returns the cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// Window returns the averaging window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// DiscoveryTimeout returns the device discovery timeout as a duration.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.DiscoveryTimeoutSeconds) * time.Second
}
