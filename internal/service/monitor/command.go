package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/temp-monitor/internal/broadcast"
	"github.com/oshokin/temp-monitor/internal/config"
	"github.com/oshokin/temp-monitor/internal/domain/alert"
	"github.com/oshokin/temp-monitor/internal/locker"
	"github.com/oshokin/temp-monitor/internal/logger"
	"github.com/oshokin/temp-monitor/internal/repository/readings"
)

// Options controls a single monitor invocation.
type Options struct {
	// DBPath is the SQLite database holding readings and alerts.
	DBPath string
	// LockPath is the advisory lock file guarding against overlapping ticks.
	LockPath string
	// Threshold is the temperature in °C below which alerts are considered.
	Threshold float64
	// Cooldown is the minimum elapsed time between two consecutive alerts.
	Cooldown time.Duration
	// Window is the trailing interval over which readings are averaged.
	Window time.Duration
	// Message is the text spoken on the cast devices.
	Message string
	// NightStart is the hour [0,23] at which alert suppression begins.
	NightStart int
	// NightEnd is the hour [0,23] at which alert suppression ends (exclusive).
	NightEnd int
	// Devices lists Chromecast friendly names to alert; empty means all devices.
	Devices []string
	// DiscoveryTimeout bounds Chromecast discovery.
	DiscoveryTimeout time.Duration
	// DryRun evaluates and logs the verdict without broadcasting or recording.
	DryRun bool
}

// errDatabasePathRequired is returned when no database path is provided.
var errDatabasePathRequired = errors.New("database path must be provided")

// OptionsFromConfig builds invocation options from validated settings.
func OptionsFromConfig(dbPath string, cfg *config.Config, dryRun bool) *Options {
	return &Options{
		DBPath:           dbPath,
		LockPath:         cfg.LockFile,
		Threshold:        cfg.Threshold,
		Cooldown:         cfg.Cooldown(),
		Window:           cfg.Window(),
		Message:          cfg.Message,
		NightStart:       cfg.NightStartHour,
		NightEnd:         cfg.NightEndHour,
		Devices:          cfg.Devices,
		DiscoveryTimeout: cfg.DiscoveryTimeout(),
		DryRun:           dryRun,
	}
}

// Validate checks the options before any storage access.
func (o *Options) Validate() error {
	if o.DBPath == "" {
		return fmt.Errorf("%w: %s", alert.ErrInvalidConfiguration, errDatabasePathRequired)
	}

	if err := alert.ValidateConfig(o.Threshold, o.Cooldown, o.NightStart, o.NightEnd); err != nil {
		return err
	}

	if o.Window <= 0 {
		return fmt.Errorf("window must be positive: %w", alert.ErrInvalidConfiguration)
	}

	return nil
}

// Run executes one monitoring tick: acquire the lock, read the windowed
// average, evaluate the verdict, and broadcast plus record when eligible.
//
// A contended lock is not an error: overlapping cron ticks are expected and
// the invocation simply skips its turn. Configuration and storage failures
// surface as errors so the process exits non-zero.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "monitor")

	if err := opts.Validate(); err != nil {
		return err
	}

	// The lock must be held before any read that informs the write decision,
	// or two ticks could both decide to alert in the same window.
	guard, acquired, err := locker.TryAcquire(opts.LockPath)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}

	if !acquired {
		logger.WarnKV(ctx, "Another monitor instance holds the lock, skipping this tick",
			"lock_file", opts.LockPath)

		return nil
	}

	defer func() {
		if releaseErr := guard.Release(); releaseErr != nil {
			logger.ErrorKV(ctx, "Failed to release lock", "error", releaseErr)
		}
	}()

	repo, err := readings.Open(ctx, opts.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	defer func() {
		_ = repo.Close()
	}()

	caster := broadcast.NewChromecast(
		broadcast.WithDeviceNames(opts.Devices),
		broadcast.WithDiscoveryTimeout(opts.DiscoveryTimeout),
	)

	_, err = newService(repo, caster, opts).tick(ctx)

	return err
}
