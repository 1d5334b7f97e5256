package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/temp-monitor/internal/config"
	"github.com/oshokin/temp-monitor/internal/logger"
	"github.com/oshokin/temp-monitor/internal/service/monitor"
	"github.com/oshokin/temp-monitor/internal/version"
)

var (
	// configPath stores the path to the optional settings YAML file.
	configPath string
	// threshold is the temperature threshold in °C.
	threshold float64
	// cooldownSeconds is the minimum spacing between alerts.
	cooldownSeconds int
	// windowSeconds is the trailing averaging window.
	windowSeconds int
	// message is the spoken alert text.
	message string
	// nightStart is the hour at which alert suppression begins.
	nightStart int
	// nightEnd is the hour at which alert suppression ends.
	nightEnd int
	// devices lists Chromecast friendly names to alert.
	devices []string
	// discoveryTimeoutSeconds bounds Chromecast discovery.
	discoveryTimeoutSeconds int
	// lockFile is the advisory lock path.
	lockFile string
	// logLevel is the minimum log level.
	logLevel string
	// dryRun evaluates without broadcasting or recording.
	dryRun bool

	// rootCmd represents the base command that runs one monitoring tick.
	rootCmd = &cobra.Command{
		Use:   "monitor <db-path>",
		Short: "Check the windowed average temperature and alert if needed.",
		Long: `Cron-driven temperature monitor.

Reads recent sensor readings from the SQLite database at <db-path>, computes the
average temperature over a trailing window, and broadcasts a spoken alert to
Chromecast devices on the local network when the average falls below the
threshold. Alerts are suppressed during a configurable cooldown after the
previous alert and during configurable night hours.

Overlapping invocations are prevented by a non-blocking file lock: when another
instance holds the lock, this tick is skipped and the process exits 0.
The process exits non-zero only on configuration, storage, or lock-infrastructure
failures; a completed decision (alert sent or suppressed) always exits 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			applyLogLevel(ctx, cfg.LogLevel)

			return monitor.Run(ctx, monitor.OptionsFromConfig(args[0], cfg, dryRun))
		},
	}
)

// Execute runs the monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings merges defaults, the optional settings file, and explicit flags,
// in that order of precedence (lowest first), then validates the result.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}

	if flags.Changed("cooldown") {
		cfg.CooldownSeconds = cooldownSeconds
	}

	if flags.Changed("window") {
		cfg.WindowSeconds = windowSeconds
	}

	if flags.Changed("message") {
		cfg.Message = message
	}

	if flags.Changed("night-start") {
		cfg.NightStartHour = nightStart
	}

	if flags.Changed("night-end") {
		cfg.NightEndHour = nightEnd
	}

	if flags.Changed("devices") {
		cfg.Devices = devices
	}

	if flags.Changed("discovery-timeout") {
		cfg.DiscoveryTimeoutSeconds = discoveryTimeoutSeconds
	}

	if flags.Changed("lock-file") {
		cfg.LockFile = lockFile
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyLogLevel parses and applies the configured level,
// keeping the default on unknown values.
func applyLogLevel(ctx context.Context, level string) {
	parsed, ok := logger.ParseLogLevel(level)
	if !ok {
		logger.WarnKV(ctx, "Unknown log level, keeping default", "log_level", level)

		return
	}

	logger.SetLevel(parsed)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to optional settings YAML file")
	flags.Float64VarP(&threshold, "threshold", "s", config.DefaultThreshold, "temperature threshold in °C")
	flags.IntVarP(&cooldownSeconds, "cooldown", "c", config.DefaultCooldownSeconds, "cooldown between alerts in seconds")
	flags.IntVarP(&windowSeconds, "window", "w", config.DefaultWindowSeconds, "averaging window in seconds")
	flags.StringVarP(&message, "message", "m", config.DefaultMessage, "alert message to speak on the devices")
	flags.IntVar(&nightStart, "night-start", config.DefaultNightStartHour, "hour [0-23] at which alert suppression begins")
	flags.IntVar(&nightEnd, "night-end", config.DefaultNightEndHour, "hour [0-23] at which alert suppression ends")
	flags.StringSliceVarP(&devices, "devices", "d", nil, "Chromecast friendly names to alert (default: all devices)")
	flags.IntVarP(&discoveryTimeoutSeconds, "discovery-timeout", "t", config.DefaultDiscoveryTimeoutSeconds, "device discovery timeout in seconds")
	flags.StringVar(&lockFile, "lock-file", config.DefaultLockFile(), "advisory lock file preventing overlapping runs")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, fatal)")
	flags.BoolVar(&dryRun, "dry-run", false, "evaluate and log the verdict without broadcasting or recording")
}
