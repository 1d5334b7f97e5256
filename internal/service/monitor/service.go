package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/temp-monitor/internal/broadcast"
	"github.com/oshokin/temp-monitor/internal/domain/alert"
	"github.com/oshokin/temp-monitor/internal/logger"
	"github.com/oshokin/temp-monitor/internal/repository/readings"
)

// service wires storage, the decision function and the broadcaster together.
// It is unexported to keep the CLI decoupled from the implementation.
type service struct {
	// repo provides the windowed average and alert history.
	repo readings.Repository
	// caster delivers the alert message to devices.
	caster broadcast.Broadcaster
	// opts holds the invocation settings.
	opts *Options
	// now returns the current time; replaced in tests.
	now func() time.Time
}

// newService creates a service for one invocation.
func newService(repo readings.Repository, caster broadcast.Broadcaster, opts *Options) *service {
	return &service{
		repo:   repo,
		caster: caster,
		opts:   opts,
		now:    time.Now,
	}
}

// tick performs one complete decision cycle and returns the verdict.
//
// An alert is recorded exactly when the verdict says to alert. A failed
// broadcast is logged but does not block recording: suppressing alert spam
// once connectivity returns takes priority over guaranteeing delivery.
func (s *service) tick(ctx context.Context) (alert.Verdict, error) {
	now := s.now()

	avgTemp, err := s.repo.AverageTemperature(ctx, s.opts.Window, now)
	if err != nil {
		return alert.Verdict{}, fmt.Errorf("read average temperature: %w", err)
	}

	lastAlertAt, err := s.repo.LastAlertAt(ctx)
	if err != nil {
		return alert.Verdict{}, fmt.Errorf("read last alert: %w", err)
	}

	if lastAlertAt != nil && lastAlertAt.After(now) {
		logger.WarnKV(ctx, "Last alert is in the future, clock skew suspected",
			"last_alert_at", lastAlertAt.Format(time.RFC3339),
			"now", now.Format(time.RFC3339))
	}

	verdict, err := alert.Evaluate(alert.Params{
		AvgTemp:     avgTemp,
		Threshold:   s.opts.Threshold,
		Now:         now,
		LastAlertAt: lastAlertAt,
		Cooldown:    s.opts.Cooldown,
		NightStart:  s.opts.NightStart,
		NightEnd:    s.opts.NightEnd,
	})
	if err != nil {
		return alert.Verdict{}, err
	}

	logVerdict(ctx, verdict, avgTemp, s.opts)

	if !verdict.ShouldAlert {
		return verdict, nil
	}

	if s.opts.DryRun {
		logger.Info(ctx, "Dry run: alert not broadcast or recorded")

		return verdict, nil
	}

	notified, err := s.caster.Broadcast(ctx, s.opts.Message)
	if err != nil {
		// Record anyway so a persistent network fault cannot turn into
		// alert spam once connectivity returns.
		logger.ErrorKV(ctx, "Broadcast failed, recording alert to preserve cooldown",
			"error", err)
	} else {
		logger.InfoKV(ctx, "Alert broadcast", "devices_notified", notified)
	}

	if err = s.repo.RecordAlert(ctx, now, s.opts.Message); err != nil {
		return verdict, fmt.Errorf("record alert: %w", err)
	}

	return verdict, nil
}

// logVerdict emits the one structured line per invocation that operators
// rely on to diagnose suppressed alerts without source access.
func logVerdict(ctx context.Context, verdict alert.Verdict, avgTemp *float64, opts *Options) {
	kvs := []any{
		"should_alert", verdict.ShouldAlert,
		"reason", string(verdict.Reason),
		"threshold", opts.Threshold,
		"window", opts.Window.String(),
		"cooldown", opts.Cooldown.String(),
		"night_start", opts.NightStart,
		"night_end", opts.NightEnd,
	}

	if avgTemp != nil {
		kvs = append(kvs, "avg_temp", *avgTemp)
	}

	logger.InfoKV(ctx, "Verdict", kvs...)
}
