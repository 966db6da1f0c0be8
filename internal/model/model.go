// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// PasswordRecord is a single stored credential. Secret and Notes are plaintext
// at the point of analysis; encryption is applied only at the persistence
// boundary by the vault service.
type PasswordRecord struct {
	ID         uuid.UUID  // PK
	OwnerID    uuid.UUID  // FK -> owning user (external identity provider)
	Service    string     // display name, free text
	Account    string     // username or email
	Secret     string     // password value
	Notes      string     // optional
	CreatedAt  time.Time  // set once at creation
	UpdatedAt  time.Time  // refreshed on every mutation; CreatedAt <= UpdatedAt
	ExpiryDate *time.Time // optional rotation deadline; may predate CreatedAt
}

// StrengthLevel is the categorical strength classification.
type StrengthLevel string

const (
	LevelVeryWeak StrengthLevel = "very-weak"
	LevelWeak     StrengthLevel = "weak"
	LevelFair     StrengthLevel = "fair"
	LevelGood     StrengthLevel = "good"
	LevelStrong   StrengthLevel = "strong"
)

// StrengthResult is the full output of the strength analyzer.
type StrengthResult struct {
	Score       int // 0..4
	Warning     string
	Suggestions []string
	EntropyBits float64 // coarse upper bound, independent of Score
}

// StrengthIndicator is the five-level presentation of a score.
type StrengthIndicator struct {
	Score      int // 0..4
	Level      StrengthLevel
	Color      string // presentation hint (hex)
	Percentage int    // Score * 20
}

// Requirements reports which minimum-password requirements are satisfied.
type Requirements struct {
	Length    bool // >= 8
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool
}

// MinimumCheck is the boolean gate independent of the probabilistic score.
type MinimumCheck struct {
	Meets        bool
	Requirements Requirements
}

// BreachResult is the outcome of a k-anonymity password lookup.
type BreachResult struct {
	IsBreached  bool
	BreachCount int
}

// BreachRecord describes one known breach an account appeared in.
type BreachRecord struct {
	Name        string
	Title       string
	Domain      string
	BreachDate  string
	PwnCount    int
	DataClasses []string
}

// EmailBreachResult is the outcome of a breached-account lookup.
type EmailBreachResult struct {
	IsBreached  bool
	BreachCount int
	Breaches    []BreachRecord
}

// PasswordHealth is the per-record health report. Derived, never persisted.
type PasswordHealth struct {
	PasswordID  uuid.UUID
	ServiceName string

	IsWeak     bool // strength score < 3
	IsReused   bool // secret occurs more than once in the owner's collection
	IsOld      bool // older than 90 days
	IsBreached bool // best-effort; false when the checker fails
	IsExpiring bool // days until expiry <= 14 (past-due included)
	IsExpired  bool // informational; feeds nothing unless DistinguishExpired is on

	DaysSinceCreated int
	DaysUntilExpiry  *int // nil when no expiry date is set

	Recommendations []string
}

// SecurityMetrics holds collection-wide counts and the derived score.
// ReusedPasswords counts every record participating in a duplicate group,
// not just the copies beyond the first.
type SecurityMetrics struct {
	TotalPasswords    int
	WeakPasswords     int
	ReusedPasswords   int
	OldPasswords      int
	BreachedPasswords int
	ExpiringPasswords int
	SecurityScore     int // 0..100
}

// RiskLevel classifies the collection as a whole.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AlertType identifies the condition an alert reports.
type AlertType string

const (
	AlertBreach   AlertType = "breach"
	AlertWeak     AlertType = "weak"
	AlertReused   AlertType = "reused"
	AlertExpiring AlertType = "expiring"
)

// AlertSeverity orders alerts; critical > high > medium > low.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// SeverityRank maps a severity to its sort weight.
func SeverityRank(s AlertSeverity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// AlertAction is one suggested action attached to an alert.
type AlertAction struct {
	Code    string
	Label   string
	Primary bool
}

// SecurityAlert is one detected condition on one record. A record can carry
// several alerts at once; they are regenerated on every dashboard run.
type SecurityAlert struct {
	Type        AlertType
	Severity    AlertSeverity
	Title       string
	Message     string
	ServiceName string
	PasswordID  uuid.UUID
	Actions     []AlertAction
}

// DashboardData is the full output of one dashboard generation.
type DashboardData struct {
	Metrics         SecurityMetrics
	RiskLevel       RiskLevel
	PasswordHealth  []PasswordHealth // input order preserved
	Alerts          []SecurityAlert  // severity descending, stable
	Recommendations []string
	GeneratedAt     time.Time
}

// NotificationPrefs are the per-owner alert-scheduling toggles.
type NotificationPrefs struct {
	BreachAlerts   bool `json:"breach_alerts"`
	WeakAlerts     bool `json:"weak_alerts"`
	ExpiringAlerts bool `json:"expiring_alerts"`
}

// DefaultNotificationPrefs enables every alert type.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{BreachAlerts: true, WeakAlerts: true, ExpiringAlerts: true}
}
