package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/temp-monitor/internal/domain/alert"
)

// TestValidate checks range validation and default backfilling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	require.Error(t, Validate(nil))

	// Defaults are valid.
	cfg := Default()
	require.NoError(t, Validate(cfg))

	// Negative cooldown.
	cfg = Default()
	cfg.CooldownSeconds = -1

	err := Validate(cfg)
	require.ErrorIs(t, err, alert.ErrInvalidConfiguration)

	// Hour out of range.
	cfg = Default()
	cfg.NightEndHour = 24

	err = Validate(cfg)
	require.ErrorIs(t, err, alert.ErrInvalidConfiguration)

	// Zero window.
	cfg = Default()
	cfg.WindowSeconds = 0

	err = Validate(cfg)
	require.ErrorIs(t, err, alert.ErrInvalidConfiguration)

	// Empty optional fields are backfilled, not rejected.
	cfg = Default()
	cfg.Message = ""
	cfg.LockFile = ""
	cfg.LogLevel = ""

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultMessage, cfg.Message)
	require.Equal(t, DefaultLockFile(), cfg.LockFile)
	require.Equal(t, "info", cfg.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := Default()
	cfg.Threshold = 4.5
	cfg.CooldownSeconds = 1800
	cfg.Devices = []string{"Kitchen Display", "Living Room speaker"}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.InDelta(t, cfg.Threshold, loaded.Threshold, 1e-9)
	require.Equal(t, cfg.CooldownSeconds, loaded.CooldownSeconds)
	require.Equal(t, cfg.Devices, loaded.Devices)
}

// TestLoad_PartialFile keeps defaults for keys the file does not mention.
func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 3.0\n"), DefaultFilePermissions))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.InDelta(t, 3.0, loaded.Threshold, 1e-9)
	require.Equal(t, DefaultWindowSeconds, loaded.WindowSeconds)
	require.Equal(t, DefaultMessage, loaded.Message)
}

// TestLoad_MissingFile returns an error rather than silent defaults.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestDurationAccessors converts second counts into durations.
func TestDurationAccessors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, time.Hour, cfg.Cooldown())
	require.Equal(t, time.Minute, cfg.Window())
	require.Equal(t, 30*time.Second, cfg.DiscoveryTimeout())
}
