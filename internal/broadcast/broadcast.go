package broadcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vishen/go-chromecast/application"
	"github.com/vishen/go-chromecast/dns"
	"go.uber.org/multierr"

	"github.com/oshokin/temp-monitor/internal/logger"
)

// Broadcaster delivers an alert message to devices on the local network.
// Implementations return the number of devices notified.
type Broadcaster interface {
	Broadcast(ctx context.Context, message string) (int, error)
}

// Device describes a discovered Chromecast for listing purposes.
type Device struct {
	// Name is the friendly name configured on the device.
	Name string
	// UUID is the device identifier.
	UUID string
	// Model is the device model string (e.g. "Google Home Mini").
	Model string
	// Addr is the device IP address.
	Addr string
	// Port is the cast protocol port.
	Port int
}

// DefaultDiscoveryTimeout bounds mDNS discovery when no timeout is configured.
const DefaultDiscoveryTimeout = 30 * time.Second

// ErrNoDevices is returned when discovery finds no matching Chromecast.
var ErrNoDevices = errors.New("no matching cast devices found")

// Chromecast broadcasts spoken messages to Chromecast devices.
// Discovery and the cast protocol are delegated entirely to go-chromecast;
// this type only matches devices and sequences playback.
type Chromecast struct {
	// deviceNames restricts delivery to these friendly names; empty means all.
	deviceNames []string
	// timeout bounds the mDNS discovery phase.
	timeout time.Duration
}

// Option configures the Chromecast broadcaster.
type Option func(*Chromecast)

// WithDeviceNames restricts broadcasting to the given friendly names.
func WithDeviceNames(names []string) Option {
	return func(c *Chromecast) {
		c.deviceNames = names
	}
}

// WithDiscoveryTimeout sets how long device discovery may take.
func WithDiscoveryTimeout(timeout time.Duration) Option {
	return func(c *Chromecast) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewChromecast creates a broadcaster with the provided options.
func NewChromecast(opts ...Option) *Chromecast {
	c := &Chromecast{
		timeout: DefaultDiscoveryTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Broadcast discovers matching devices and plays the message on each of them.
// It succeeds when at least one device played the message.
func (c *Chromecast) Broadcast(ctx context.Context, message string) (int, error) {
	entries, err := c.discoverEntries(ctx)
	if err != nil {
		return 0, err
	}

	if len(entries) == 0 {
		return 0, ErrNoDevices
	}

	mediaURL := ttsURL(message)

	var (
		notified int
		failures error
	)

	for _, entry := range entries {
		if err = playOn(entry, mediaURL); err != nil {
			logger.WarnKV(ctx, "Failed to play message on device",
				"device", entry.DeviceName, "error", err)

			failures = multierr.Append(failures, err)

			continue
		}

		logger.InfoKV(ctx, "Message sent to device",
			"device", entry.DeviceName, "addr", entry.GetAddr())

		notified++
	}

	if notified == 0 {
		return 0, fmt.Errorf("all devices failed: %w", failures)
	}

	return notified, nil
}

// Discover lists Chromecast devices visible on the network within the timeout.
func (c *Chromecast) Discover(ctx context.Context) ([]Device, error) {
	entries, err := c.discoverEntries(ctx)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(entries))
	for _, entry := range entries {
		devices = append(devices, Device{
			Name:  entry.DeviceName,
			UUID:  entry.UUID,
			Model: entry.Device,
			Addr:  entry.GetAddr(),
			Port:  entry.GetPort(),
		})
	}

	return devices, nil
}

// discoverEntries runs mDNS discovery until the timeout elapses or,
// when a name filter is set, until every requested device has been seen.
func (c *Chromecast) discoverEntries(ctx context.Context) ([]dns.CastEntry, error) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}

	discoveryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found, err := dns.DiscoverCastDNSEntries(discoveryCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("discover cast devices: %w", err)
	}

	var (
		entries []dns.CastEntry
		seen    = make(map[string]struct{})
	)

	for entry := range found {
		if !matchesFilter(entry.DeviceName, c.deviceNames) {
			continue
		}

		// Devices may announce themselves more than once per browse.
		if _, ok := seen[entry.UUID]; ok {
			continue
		}

		seen[entry.UUID] = struct{}{}
		entries = append(entries, entry)

		// With an explicit device list there is no point waiting out
		// the timeout once everything requested has answered.
		if len(c.deviceNames) > 0 && len(entries) == len(c.deviceNames) {
			cancel()
		}
	}

	return entries, nil
}

// playOn connects to a single device and loads the media URL on it.
func playOn(entry dns.CastEntry, mediaURL string) error {
	app := application.NewApplication()

	if err := app.Start(entry.GetAddr(), entry.GetPort()); err != nil {
		return fmt.Errorf("connect to %s: %w", entry.DeviceName, err)
	}

	defer func() {
		_ = app.Close(false)
	}()

	// Detached load: the device keeps playing after we disconnect.
	if err := app.Load(mediaURL, 0, "audio/mp3", false, true, false); err != nil {
		return fmt.Errorf("load media on %s: %w", entry.DeviceName, err)
	}

	return nil
}

// matchesFilter reports whether a friendly name passes the device filter.
// An empty filter matches every device.
func matchesFilter(name string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}

	for _, wanted := range filter {
		if name == wanted {
			return true
		}
	}

	return false
}
