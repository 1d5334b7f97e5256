package broadcast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMatchesFilter covers the empty filter and exact-name matching.
func TestMatchesFilter(t *testing.T) {
	t.Parallel()

	require.True(t, matchesFilter("Kitchen Display", nil))
	require.True(t, matchesFilter("Kitchen Display", []string{"Living Room speaker", "Kitchen Display"}))
	require.False(t, matchesFilter("Bedroom speaker", []string{"Kitchen Display"}))

	// Matching is exact, not case-insensitive.
	require.False(t, matchesFilter("kitchen display", []string{"Kitchen Display"}))
}

// TestTTSURL checks the message is query-escaped into the TTS endpoint.
func TestTTSURL(t *testing.T) {
	t.Parallel()

	got := ttsURL("Temperature below threshold")
	require.Contains(t, got, ttsBaseURL)
	require.Contains(t, got, "q=Temperature+below+threshold")
	require.Contains(t, got, "tl=en")
}

// TestNewChromecast verifies option application and the timeout fallback.
func TestNewChromecast(t *testing.T) {
	t.Parallel()

	c := NewChromecast()
	require.Equal(t, DefaultDiscoveryTimeout, c.timeout)
	require.Empty(t, c.deviceNames)

	c = NewChromecast(
		WithDeviceNames([]string{"Kitchen Display"}),
		WithDiscoveryTimeout(-1),
	)
	require.Equal(t, DefaultDiscoveryTimeout, c.timeout)
	require.Equal(t, []string{"Kitchen Display"}, c.deviceNames)
}
