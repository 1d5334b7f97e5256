package alert

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Reason explains why a verdict came out the way it did.
// Values are stable strings so they can go straight into log fields.
type Reason string

const (
	// ReasonNoData means no readings existed in the trailing window.
	ReasonNoData Reason = "no_data"
	// ReasonAboveThreshold means the average temperature is at or above the threshold.
	ReasonAboveThreshold Reason = "above_threshold"
	// ReasonInCooldown means a previous alert fired too recently.
	ReasonInCooldown Reason = "in_cooldown"
	// ReasonInNightMode means the current hour falls inside the configured night window.
	ReasonInNightMode Reason = "in_night_mode"
	// ReasonEligible means the temperature is below the threshold and nothing suppresses the alert.
	ReasonEligible Reason = "below_threshold_and_eligible"
)

// Verdict is the outcome of a single evaluation.
// It is transient and never persisted.
type Verdict struct {
	// ShouldAlert tells the caller whether to broadcast and record an alert.
	ShouldAlert bool
	// Reason is the human-diagnosable explanation for the outcome.
	Reason Reason
}

// Params carries every input the decision depends on.
// The evaluation is a pure function of these values.
type Params struct {
	// AvgTemp is the windowed average temperature, nil when no readings exist.
	AvgTemp *float64
	// Threshold is the temperature in °C below which alerts are considered.
	Threshold float64
	// Now is the evaluation time, in the same zone as stored data.
	Now time.Time
	// LastAlertAt is the timestamp of the most recent alert, nil when none exists.
	LastAlertAt *time.Time
	// Cooldown is the minimum elapsed time between two consecutive alerts.
	Cooldown time.Duration
	// NightStart is the hour [0,23] at which the suppression window opens.
	NightStart int
	// NightEnd is the hour [0,23] at which the suppression window closes (exclusive).
	NightEnd int
}

// ErrInvalidConfiguration is returned when thresholds, cooldowns
// or hour bounds are outside their documented ranges.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ValidateConfig checks the tunable decision inputs against their documented ranges.
// Missing data (nil average, nil last alert) is a state, not a configuration error,
// so it is not checked here.
func ValidateConfig(threshold float64, cooldown time.Duration, nightStart, nightEnd int) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("threshold must be a finite number: %w", ErrInvalidConfiguration)
	}

	if cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative: %w", ErrInvalidConfiguration)
	}

	if nightStart < 0 || nightStart > 23 {
		return fmt.Errorf("night start hour %d is outside [0,23]: %w", nightStart, ErrInvalidConfiguration)
	}

	if nightEnd < 0 || nightEnd > 23 {
		return fmt.Errorf("night end hour %d is outside [0,23]: %w", nightEnd, ErrInvalidConfiguration)
	}

	return nil
}

// Evaluate decides whether an alert should fire.
//
// Checks run in a fixed order and short-circuit:
// missing data, threshold, cooldown, night mode.
// The order is part of the contract — a reading above the threshold
// reports above_threshold even while a cooldown is active.
func Evaluate(p Params) (Verdict, error) {
	if err := ValidateConfig(p.Threshold, p.Cooldown, p.NightStart, p.NightEnd); err != nil {
		return Verdict{}, err
	}

	if p.AvgTemp == nil {
		return Verdict{ShouldAlert: false, Reason: ReasonNoData}, nil
	}

	if *p.AvgTemp >= p.Threshold {
		return Verdict{ShouldAlert: false, Reason: ReasonAboveThreshold}, nil
	}

	// A missing last alert means the cooldown never blocks.
	if p.LastAlertAt != nil && p.Now.Sub(*p.LastAlertAt) < p.Cooldown {
		return Verdict{ShouldAlert: false, Reason: ReasonInCooldown}, nil
	}

	if inNightWindow(p.Now.Hour(), p.NightStart, p.NightEnd) {
		return Verdict{ShouldAlert: false, Reason: ReasonInNightMode}, nil
	}

	return Verdict{ShouldAlert: true, Reason: ReasonEligible}, nil
}

// inNightWindow reports whether hour falls inside the half-open window [start, end),
// wrapping midnight when start > end. Equal bounds denote an empty window.
func inNightWindow(hour, start, end int) bool {
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}
