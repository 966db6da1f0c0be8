// Package notify schedules user-facing notifications for security alerts.
package notify

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/model"
	"github.com/vrushal09/passnext/internal/repository"
)

// DefaultCooldown suppresses repeats of the same alert for a day.
const DefaultCooldown = 24 * time.Hour

// Scheduler delivers a single alert to whatever channel the platform has.
type Scheduler interface {
	Schedule(ctx context.Context, ownerID uuid.UUID, alert model.SecurityAlert) error
}

// LogScheduler writes alerts to the structured log. Used when no push
// channel is configured and as the default in tests.
type LogScheduler struct {
	log *zap.Logger
}

func NewLogScheduler(log *zap.Logger) *LogScheduler {
	return &LogScheduler{log: log}
}

func (s *LogScheduler) Schedule(_ context.Context, ownerID uuid.UUID, alert model.SecurityAlert) error {
	s.log.Info("security notification",
		zap.String("owner", ownerID.String()),
		zap.String("type", string(alert.Type)),
		zap.String("severity", string(alert.Severity)),
		zap.String("service", alert.ServiceName),
		zap.String("title", alert.Title),
	)
	return nil
}

// PrefsSource resolves the per-owner notification toggles.
type PrefsSource interface {
	Prefs(ctx context.Context, ownerID uuid.UUID) (model.NotificationPrefs, error)
}

// Dispatcher filters dashboard alerts through owner preferences and a
// cooldown log before handing them to the scheduler. Reused-password
// alerts stay in the dashboard only and are never scheduled.
type Dispatcher struct {
	scheduler Scheduler
	sentLog   repository.SentLogRepository
	prefs     PrefsSource
	cooldown  time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewDispatcher(scheduler Scheduler, sentLog repository.SentLogRepository, prefs PrefsSource, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		scheduler: scheduler,
		sentLog:   sentLog,
		prefs:     prefs,
		cooldown:  DefaultCooldown,
		now:       time.Now,
		log:       log,
	}
}

// Dispatch schedules the alerts that pass preference and cooldown checks.
// Failures are logged and skipped; dashboard generation must not depend on
// notification delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, ownerID uuid.UUID, alerts []model.SecurityAlert) {
	if len(alerts) == 0 {
		return
	}

	prefs := model.DefaultNotificationPrefs()
	if d.prefs != nil {
		p, err := d.prefs.Prefs(ctx, ownerID)
		if err != nil {
			d.log.Warn("notification prefs unavailable, using defaults",
				zap.String("owner", ownerID.String()), zap.Error(err))
		} else {
			prefs = p
		}
	}

	now := d.now()
	since := now.Add(-d.cooldown)
	for _, alert := range alerts {
		if !enabled(prefs, alert.Type) {
			continue
		}
		sent, err := d.sentLog.WasSentSince(ctx, ownerID, alert.Type, alert.PasswordID, since)
		if err != nil {
			d.log.Warn("sent-log lookup failed, skipping alert",
				zap.String("type", string(alert.Type)), zap.Error(err))
			continue
		}
		if sent {
			continue
		}
		if err := d.scheduler.Schedule(ctx, ownerID, alert); err != nil {
			d.log.Warn("schedule failed",
				zap.String("type", string(alert.Type)), zap.Error(err))
			continue
		}
		if err := d.sentLog.MarkSent(ctx, ownerID, alert.Type, alert.PasswordID, now); err != nil {
			d.log.Warn("sent-log write failed",
				zap.String("type", string(alert.Type)), zap.Error(err))
		}
	}
}

func enabled(prefs model.NotificationPrefs, t model.AlertType) bool {
	switch t {
	case model.AlertBreach:
		return prefs.BreachAlerts
	case model.AlertWeak:
		return prefs.WeakAlerts
	case model.AlertExpiring:
		return prefs.ExpiringAlerts
	default:
		return false
	}
}
