package alert

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// floatPtr returns a pointer to the provided float for building Params.
func floatPtr(f float64) *float64 {
	return &f
}

// timePtr returns a pointer to the provided time for building Params.
func timePtr(t time.Time) *time.Time {
	return &t
}

// baseParams returns a parameter set that evaluates to an eligible alert:
// cold reading, afternoon, no previous alert, default night window.
func baseParams() Params {
	return Params{
		AvgTemp:    floatPtr(5.0),
		Threshold:  8.0,
		Now:        time.Date(2026, time.January, 15, 14, 0, 0, 0, time.UTC),
		Cooldown:   time.Hour,
		NightStart: 21,
		NightEnd:   7,
	}
}

// TestEvaluate_Eligible covers the happy path: below threshold, no cooldown, daytime.
func TestEvaluate_Eligible(t *testing.T) {
	t.Parallel()

	v, err := Evaluate(baseParams())
	require.NoError(t, err)
	require.True(t, v.ShouldAlert)
	require.Equal(t, ReasonEligible, v.Reason)
}

// TestEvaluate_NoData asserts a nil average always yields no_data,
// regardless of every other input.
func TestEvaluate_NoData(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.AvgTemp = nil
	// Even with a recent alert and a night-time hour, no_data wins.
	p.LastAlertAt = timePtr(p.Now.Add(-time.Minute))
	p.Now = time.Date(2026, time.January, 15, 22, 0, 0, 0, time.UTC)

	v, err := Evaluate(p)
	require.NoError(t, err)
	require.False(t, v.ShouldAlert)
	require.Equal(t, ReasonNoData, v.Reason)
}

// TestEvaluate_AboveThreshold verifies temperatures at or above the threshold
// suppress the alert before any other check runs.
func TestEvaluate_AboveThreshold(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.AvgTemp = floatPtr(10.0)
	// A live cooldown and a night-time hour must not change the reason.
	p.LastAlertAt = timePtr(p.Now.Add(-time.Minute))
	p.Now = time.Date(2026, time.January, 15, 22, 0, 0, 0, time.UTC)

	v, err := Evaluate(p)
	require.NoError(t, err)
	require.False(t, v.ShouldAlert)
	require.Equal(t, ReasonAboveThreshold, v.Reason)

	// Boundary: exactly at the threshold counts as above.
	p = baseParams()
	p.AvgTemp = floatPtr(8.0)

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonAboveThreshold, v.Reason)
}

// TestEvaluate_Cooldown checks cooldown suppression and its boundaries.
func TestEvaluate_Cooldown(t *testing.T) {
	t.Parallel()

	// 10 minutes since the last alert with a 1 hour cooldown.
	p := baseParams()
	p.LastAlertAt = timePtr(p.Now.Add(-10 * time.Minute))

	v, err := Evaluate(p)
	require.NoError(t, err)
	require.False(t, v.ShouldAlert)
	require.Equal(t, ReasonInCooldown, v.Reason)

	// Exactly the cooldown elapsed: eligible again.
	p.LastAlertAt = timePtr(p.Now.Add(-p.Cooldown))

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.True(t, v.ShouldAlert)

	// A missing last alert never triggers the cooldown.
	p.LastAlertAt = nil

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.True(t, v.ShouldAlert)
	require.Equal(t, ReasonEligible, v.Reason)

	// A last alert in the future (clock skew) still counts as in cooldown.
	p.LastAlertAt = timePtr(p.Now.Add(time.Minute))

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonInCooldown, v.Reason)
}

// TestEvaluate_NightModeWraparound walks every hour against the default 21→7 window:
// hours 21..23 and 0..6 are suppressed, 7..20 are not.
func TestEvaluate_NightModeWraparound(t *testing.T) {
	t.Parallel()

	for hour := range 24 {
		p := baseParams()
		p.Now = time.Date(2026, time.January, 15, hour, 30, 0, 0, time.UTC)

		v, err := Evaluate(p)
		require.NoError(t, err)

		suppressed := hour >= 21 || hour < 7
		if suppressed {
			require.False(t, v.ShouldAlert, "hour %d should be suppressed", hour)
			require.Equal(t, ReasonInNightMode, v.Reason, "hour %d", hour)
		} else {
			require.True(t, v.ShouldAlert, "hour %d should not be suppressed", hour)
			require.Equal(t, ReasonEligible, v.Reason, "hour %d", hour)
		}
	}
}

// TestEvaluate_NightModeBoundaries pins the half-open interval:
// exactly hour 21 is suppressed, exactly hour 7 is not.
func TestEvaluate_NightModeBoundaries(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.Now = time.Date(2026, time.January, 15, 21, 0, 0, 0, time.UTC)

	v, err := Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonInNightMode, v.Reason)

	p.Now = time.Date(2026, time.January, 15, 7, 0, 0, 0, time.UTC)

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonEligible, v.Reason)
}

// TestEvaluate_NonWrappingAndEmptyWindows covers a same-day night window
// and equal bounds denoting an empty window.
func TestEvaluate_NonWrappingAndEmptyWindows(t *testing.T) {
	t.Parallel()

	// Window 1..5 on the same day.
	p := baseParams()
	p.NightStart, p.NightEnd = 1, 5
	p.Now = time.Date(2026, time.January, 15, 3, 0, 0, 0, time.UTC)

	v, err := Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonInNightMode, v.Reason)

	p.Now = time.Date(2026, time.January, 15, 5, 0, 0, 0, time.UTC)

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonEligible, v.Reason)

	// Equal bounds: never suppress.
	p.NightStart, p.NightEnd = 4, 4
	p.Now = time.Date(2026, time.January, 15, 4, 0, 0, 0, time.UTC)

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonEligible, v.Reason)
}

// TestEvaluate_CheckOrder verifies threshold beats cooldown beats night mode.
func TestEvaluate_CheckOrder(t *testing.T) {
	t.Parallel()

	// Cold reading, live cooldown, night hour: cooldown reported first.
	p := baseParams()
	p.Now = time.Date(2026, time.January, 15, 22, 0, 0, 0, time.UTC)
	p.LastAlertAt = timePtr(p.Now.Add(-time.Minute))

	v, err := Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonInCooldown, v.Reason)

	// Same night hour with the cooldown expired: night mode reported.
	p.LastAlertAt = timePtr(p.Now.Add(-2 * time.Hour))

	v, err = Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, ReasonInNightMode, v.Reason)
}

// TestEvaluate_Pure ensures identical inputs produce identical verdicts.
func TestEvaluate_Pure(t *testing.T) {
	t.Parallel()

	p := baseParams()
	p.LastAlertAt = timePtr(p.Now.Add(-10 * time.Minute))

	first, err := Evaluate(p)
	require.NoError(t, err)

	second, err := Evaluate(p)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

// TestEvaluate_InvalidConfiguration exercises range validation of the tunables.
func TestEvaluate_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Params){
		"negative cooldown":    func(p *Params) { p.Cooldown = -time.Second },
		"night start too high": func(p *Params) { p.NightStart = 24 },
		"night start negative": func(p *Params) { p.NightStart = -1 },
		"night end too high":   func(p *Params) { p.NightEnd = 24 },
		"nan threshold":        func(p *Params) { p.Threshold = math.NaN() },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := baseParams()
			mutate(&p)

			_, err := Evaluate(p)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}
