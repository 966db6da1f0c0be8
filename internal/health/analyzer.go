// Package health builds the per-record health report combining strength,
// reuse, age, expiry proximity, and breach status.
package health

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/model"
	"github.com/vrushal09/passnext/internal/strength"
)

// Thresholds shared with the dashboard aggregator.
const (
	WeakBelowScore     = 3
	OldAfter           = 90 * 24 * time.Hour
	ExpiringWithinDays = 14
)

// Fixed per-condition recommendations, emitted in priority order.
const (
	recBreached = "this password appeared in a known data breach - change it immediately"
	recWeak     = "this password is weak - use a longer password with mixed character types"
	recReused   = "this password is used for more than one service - make each one unique"
	recOld      = "this password is over 90 days old - consider rotating it"
	recExpiring = "this password is due for rotation soon - update it before it expires"
	recSecure   = "this password appears secure"
)

// PasswordChecker is the breach-lookup dependency. Implemented by the breach
// client and by the dashboard's batched lookup.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, password string) (model.BreachResult, error)
}

// Analyzer produces PasswordHealth reports.
type Analyzer struct {
	checker PasswordChecker
	log     *zap.Logger
}

// NewAnalyzer constructs an Analyzer. checker may be nil, in which case every
// record reports not-breached.
func NewAnalyzer(checker PasswordChecker, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{checker: checker, log: log}
}

// Analyze builds the health report for one record against the owner's full
// secret collection. Breach-check failures degrade to not-breached and never
// block the rest of the report.
func (a *Analyzer) Analyze(ctx context.Context, rec model.PasswordRecord, allSecrets []string, now time.Time) model.PasswordHealth {
	h := model.PasswordHealth{
		PasswordID:  rec.ID,
		ServiceName: rec.Service,
	}

	res := strength.Analyze(rec.Secret, []string{rec.Service, rec.Account})
	h.IsWeak = res.Score < WeakBelowScore

	// reflexive count: the record's own value is part of the collection
	occur := 0
	for _, s := range allSecrets {
		if s == rec.Secret {
			occur++
		}
	}
	h.IsReused = occur > 1

	age := now.Sub(rec.CreatedAt)
	h.DaysSinceCreated = int(age.Hours() / 24)
	h.IsOld = age > OldAfter

	if rec.ExpiryDate != nil {
		days := daysUntil(*rec.ExpiryDate, now)
		h.DaysUntilExpiry = &days
		h.IsExpiring = days <= ExpiringWithinDays
		h.IsExpired = days <= 0
	}

	if a.checker != nil {
		br, err := a.checker.CheckPassword(ctx, rec.Secret)
		if err != nil {
			a.log.Debug("breach check failed, treating as not breached",
				zap.String("service", rec.Service), zap.Error(err))
		} else {
			h.IsBreached = br.IsBreached
		}
	}

	h.Recommendations = recommendations(h)
	return h
}

// daysUntil is ceil((expiry - now) / 1 day); zero or negative means past due.
func daysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

func recommendations(h model.PasswordHealth) []string {
	var out []string
	if h.IsBreached {
		out = append(out, recBreached)
	}
	if h.IsWeak {
		out = append(out, recWeak)
	}
	if h.IsReused {
		out = append(out, recReused)
	}
	if h.IsOld {
		out = append(out, recOld)
	}
	if h.IsExpiring {
		out = append(out, recExpiring)
	}
	if len(out) == 0 {
		out = append(out, recSecure)
	}
	return out
}
