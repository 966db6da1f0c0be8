// Package dashboard aggregates per-record health into collection-wide
// metrics, a 0-100 security score, ranked alerts, and recommendations.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/health"
	"github.com/vrushal09/passnext/internal/model"
)

// Score deductions, each weighted by the ratio of affected records.
const (
	penaltyWeak     = 30.0
	penaltyReused   = 25.0
	penaltyOld      = 20.0
	penaltyBreached = 40.0
	penaltyExpiring = 10.0
)

// expiringUrgentDays is the cutoff below which an expiring alert is high
// rather than medium severity.
const expiringUrgentDays = 7

// smallCollectionHint is emitted below this record count.
const smallCollectionHint = 5

// BatchChecker performs the rate-limited batch breach lookup.
type BatchChecker interface {
	CheckMany(ctx context.Context, passwords []string) map[string]model.BreachResult
}

// Notifier receives generated alerts for scheduling. Implementations are
// best-effort: they log failures and never propagate them.
type Notifier interface {
	Dispatch(ctx context.Context, ownerID uuid.UUID, alerts []model.SecurityAlert)
}

// Options tune non-default behavior.
type Options struct {
	// DistinguishExpired makes past-due records report "expired" wording in
	// their alert instead of the expiring-soon template. Metrics and severity
	// rules are unchanged.
	DistinguishExpired bool
}

// Aggregator generates dashboards. Stateless between calls.
type Aggregator struct {
	checker  BatchChecker
	notifier Notifier
	opts     Options
	now      func() time.Time
	log      *zap.Logger
}

// New constructs an Aggregator. checker and notifier may be nil; a nil
// checker reports every record as not breached.
func New(checker BatchChecker, notifier Notifier, opts Options, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		checker:  checker,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
		log:      log,
	}
}

// memoChecker serves health analyzers from a pre-fetched batch result.
type memoChecker struct {
	results map[string]model.BreachResult
}

func (m memoChecker) CheckPassword(_ context.Context, password string) (model.BreachResult, error) {
	return m.results[password], nil
}

// Generate produces the full dashboard for an owner's records. Breach data is
// best-effort: lookup failures degrade per record and never fail generation.
// The only error returned is context cancellation.
func (g *Aggregator) Generate(ctx context.Context, ownerID uuid.UUID, records []model.PasswordRecord) (model.DashboardData, error) {
	now := g.now()
	data := model.DashboardData{
		RiskLevel:       model.RiskLow,
		PasswordHealth:  []model.PasswordHealth{},
		Alerts:          []model.SecurityAlert{},
		Recommendations: []string{},
		GeneratedAt:     now,
	}

	if len(records) == 0 {
		data.Recommendations = collectionRecommendations(data.Metrics)
		return data, nil
	}

	secrets := make([]string, len(records))
	for i := range records {
		secrets[i] = records[i].Secret
	}

	var results map[string]model.BreachResult
	if g.checker != nil {
		results = g.checker.CheckMany(ctx, secrets)
	}
	if err := ctx.Err(); err != nil {
		return model.DashboardData{}, err
	}

	analyzer := health.NewAnalyzer(memoChecker{results: results}, g.log)
	m := model.SecurityMetrics{TotalPasswords: len(records)}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return model.DashboardData{}, err
		}
		h := analyzer.Analyze(ctx, records[i], secrets, now)
		data.PasswordHealth = append(data.PasswordHealth, h)

		if h.IsWeak {
			m.WeakPasswords++
		}
		if h.IsOld {
			m.OldPasswords++
		}
		if h.IsBreached {
			m.BreachedPasswords++
		}
		if h.IsExpiring {
			m.ExpiringPasswords++
		}
	}
	m.ReusedPasswords = countReused(secrets)
	m.SecurityScore = securityScore(m)
	data.Metrics = m

	data.RiskLevel = riskLevel(m)
	data.Alerts = buildAlerts(data.PasswordHealth, g.opts)
	data.Recommendations = collectionRecommendations(m)

	if g.notifier != nil {
		// fire-and-forget: Dispatch never returns an error and must not
		// affect the returned data
		g.notifier.Dispatch(ctx, ownerID, data.Alerts)
	}
	return data, nil
}

// countReused sums occurrence counts over every secret value appearing more
// than once: three records sharing one password contribute 3, not 1.
func countReused(secrets []string) int {
	occur := make(map[string]int, len(secrets))
	for _, s := range secrets {
		occur[s]++
	}
	total := 0
	for _, n := range occur {
		if n > 1 {
			total += n
		}
	}
	return total
}

// securityScore is 100 minus additive ratio-weighted penalties, rounded and
// clamped to [0,100]. An empty collection scores 0.
func securityScore(m model.SecurityMetrics) int {
	if m.TotalPasswords == 0 {
		return 0
	}
	total := float64(m.TotalPasswords)
	deduct := float64(m.WeakPasswords)/total*penaltyWeak +
		float64(m.ReusedPasswords)/total*penaltyReused +
		float64(m.OldPasswords)/total*penaltyOld +
		float64(m.BreachedPasswords)/total*penaltyBreached +
		float64(m.ExpiringPasswords)/total*penaltyExpiring

	score := int(math.Round(100 - deduct))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// riskLevel is an ordered if/else chain; the first matching branch wins.
func riskLevel(m model.SecurityMetrics) model.RiskLevel {
	if m.TotalPasswords == 0 {
		return model.RiskLow
	}
	total := float64(m.TotalPasswords)
	switch {
	case m.BreachedPasswords > 0:
		return model.RiskCritical
	case float64(m.WeakPasswords)/total > 0.3:
		return model.RiskHigh
	case m.ReusedPasswords > 0 || float64(m.OldPasswords)/total > 0.5:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// buildAlerts emits per-condition alerts for each record and sorts them by
// severity descending; insertion order is preserved among equals.
func buildAlerts(reports []model.PasswordHealth, opts Options) []model.SecurityAlert {
	alerts := []model.SecurityAlert{}
	for _, h := range reports {
		if h.IsBreached {
			alerts = append(alerts, breachAlert(h))
		}
		if h.IsWeak {
			alerts = append(alerts, weakAlert(h))
		}
		if h.IsExpiring {
			alerts = append(alerts, expiringAlert(h, opts))
		}
		if h.IsReused {
			alerts = append(alerts, reusedAlert(h))
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return model.SeverityRank(alerts[i].Severity) > model.SeverityRank(alerts[j].Severity)
	})
	return alerts
}

func breachAlert(h model.PasswordHealth) model.SecurityAlert {
	return model.SecurityAlert{
		Type:        model.AlertBreach,
		Severity:    model.SeverityCritical,
		Title:       "Password found in data breach",
		Message:     fmt.Sprintf("Your %s password appeared in a known data breach. Change it immediately.", h.ServiceName),
		ServiceName: h.ServiceName,
		PasswordID:  h.PasswordID,
		Actions: []model.AlertAction{
			{Code: "change_password", Label: "Change Password", Primary: true},
			{Code: "learn_more", Label: "Learn More"},
		},
	}
}

func weakAlert(h model.PasswordHealth) model.SecurityAlert {
	return model.SecurityAlert{
		Type:        model.AlertWeak,
		Severity:    model.SeverityHigh,
		Title:       "Weak password",
		Message:     fmt.Sprintf("Your %s password is easy to guess. Use a longer password with mixed character types.", h.ServiceName),
		ServiceName: h.ServiceName,
		PasswordID:  h.PasswordID,
		Actions: []model.AlertAction{
			{Code: "change_password", Label: "Change Password", Primary: true},
			{Code: "check_strength", Label: "Check Strength"},
		},
	}
}

func expiringAlert(h model.PasswordHealth, opts Options) model.SecurityAlert {
	severity := model.SeverityMedium
	days := ExpiringWithinDays
	if h.DaysUntilExpiry != nil {
		days = *h.DaysUntilExpiry
	}
	if days <= expiringUrgentDays {
		severity = model.SeverityHigh
	}

	msg := fmt.Sprintf("Your %s password expires in %d days. Update it soon.", h.ServiceName, days)
	if opts.DistinguishExpired && h.IsExpired {
		msg = fmt.Sprintf("Your %s password has expired. Update it now.", h.ServiceName)
	}
	return model.SecurityAlert{
		Type:        model.AlertExpiring,
		Severity:    severity,
		Title:       "Password due for rotation",
		Message:     msg,
		ServiceName: h.ServiceName,
		PasswordID:  h.PasswordID,
		Actions: []model.AlertAction{
			{Code: "update_password", Label: "Update Password", Primary: true},
			{Code: "snooze", Label: "Remind Me Later"},
		},
	}
}

func reusedAlert(h model.PasswordHealth) model.SecurityAlert {
	return model.SecurityAlert{
		Type:        model.AlertReused,
		Severity:    model.SeverityMedium,
		Title:       "Reused password",
		Message:     fmt.Sprintf("Your %s password is used for more than one service. Make each one unique.", h.ServiceName),
		ServiceName: h.ServiceName,
		PasswordID:  h.PasswordID,
		Actions: []model.AlertAction{
			{Code: "change_password", Label: "Change Password", Primary: true},
			{Code: "view_duplicates", Label: "View Duplicates"},
		},
	}
}

// ExpiringWithinDays re-exports the health threshold for alert templates.
const ExpiringWithinDays = health.ExpiringWithinDays

// collectionRecommendations builds the collection-level text list: one line
// per nonzero metric (or a congratulation when clean), the small-collection
// hint, and the two generic habits appended unconditionally.
func collectionRecommendations(m model.SecurityMetrics) []string {
	var out []string
	issues := 0

	if m.WeakPasswords > 0 {
		out = append(out, fmt.Sprintf("strengthen %d weak password(s)", m.WeakPasswords))
		issues++
	}
	if m.ReusedPasswords > 0 {
		out = append(out, fmt.Sprintf("replace %d reused password(s) with unique ones", m.ReusedPasswords))
		issues++
	}
	if m.OldPasswords > 0 {
		out = append(out, fmt.Sprintf("rotate %d password(s) older than 90 days", m.OldPasswords))
		issues++
	}
	if m.BreachedPasswords > 0 {
		out = append(out, fmt.Sprintf("change %d breached password(s) immediately", m.BreachedPasswords))
		issues++
	}
	if m.ExpiringPasswords > 0 {
		out = append(out, fmt.Sprintf("update %d password(s) expiring soon", m.ExpiringPasswords))
		issues++
	}
	if issues == 0 {
		out = append(out, "great job - no security issues found in your passwords")
	}
	if m.TotalPasswords < smallCollectionHint {
		out = append(out, "you have fewer than 5 passwords saved - store all your accounts to get a complete security picture")
	}
	out = append(out,
		"enable biometric authentication for faster secure access",
		"rotate important passwords every 3-6 months",
	)
	return out
}
