package httpserver

import (
	"fmt"
	"time"

	u "github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/model"
)

// --- vault records ---

type passwordRequest struct {
	Service    string     `json:"service"`
	Account    string     `json:"account"`
	Secret     string     `json:"secret"`
	Notes      string     `json:"notes"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

type passwordResponse struct {
	ID         string     `json:"id"`
	Service    string     `json:"service"`
	Account    string     `json:"account"`
	Secret     string     `json:"secret"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

func fromPasswordRequest(in passwordRequest) model.PasswordRecord {
	return model.PasswordRecord{
		Service:    in.Service,
		Account:    in.Account,
		Secret:     in.Secret,
		Notes:      in.Notes,
		ExpiryDate: in.ExpiryDate,
	}
}

func toPasswordResponse(rec model.PasswordRecord) passwordResponse {
	return passwordResponse{
		ID:         rec.ID.String(),
		Service:    rec.Service,
		Account:    rec.Account,
		Secret:     rec.Secret,
		Notes:      rec.Notes,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		ExpiryDate: rec.ExpiryDate,
	}
}

func parseID(s string) (u.UUID, error) {
	var id u.UUID
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return u.Nil, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

// --- strength analysis ---

type strengthRequest struct {
	Password string   `json:"password"`
	Context  []string `json:"context,omitempty"`
}

type strengthResponse struct {
	Score        int                 `json:"score"`
	Level        model.StrengthLevel `json:"level"`
	Color        string              `json:"color"`
	Percentage   int                 `json:"percentage"`
	Warning      string              `json:"warning,omitempty"`
	Suggestions  []string            `json:"suggestions"`
	EntropyBits  float64             `json:"entropy_bits"`
	MeetsMinimum bool                `json:"meets_minimum"`
	Requirements requirementsDTO     `json:"requirements"`
}

type requirementsDTO struct {
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Numbers   bool `json:"numbers"`
	Symbols   bool `json:"symbols"`
}

func toStrengthResponse(res model.StrengthResult, ind model.StrengthIndicator, min model.MinimumCheck) strengthResponse {
	suggestions := res.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return strengthResponse{
		Score:        res.Score,
		Level:        ind.Level,
		Color:        ind.Color,
		Percentage:   ind.Percentage,
		Warning:      res.Warning,
		Suggestions:  suggestions,
		EntropyBits:  res.EntropyBits,
		MeetsMinimum: min.Meets,
		Requirements: requirementsDTO{
			Length:    min.Requirements.Length,
			Uppercase: min.Requirements.Uppercase,
			Lowercase: min.Requirements.Lowercase,
			Numbers:   min.Requirements.Numbers,
			Symbols:   min.Requirements.Symbols,
		},
	}
}

// --- breach checks ---

type breachRequest struct {
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
}

type breachResponse struct {
	IsBreached  bool             `json:"is_breached"`
	BreachCount int              `json:"breach_count"`
	Breaches    []breachInfoDTO  `json:"breaches,omitempty"`
}

type breachInfoDTO struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Domain      string   `json:"domain"`
	BreachDate  string   `json:"breach_date"`
	PwnCount    int      `json:"pwn_count"`
	DataClasses []string `json:"data_classes"`
}

func toPasswordBreachResponse(res model.BreachResult) breachResponse {
	return breachResponse{IsBreached: res.IsBreached, BreachCount: res.BreachCount}
}

func toEmailBreachResponse(res model.EmailBreachResult) breachResponse {
	out := breachResponse{IsBreached: res.IsBreached, BreachCount: res.BreachCount}
	for _, b := range res.Breaches {
		out.Breaches = append(out.Breaches, breachInfoDTO{
			Name:        b.Name,
			Title:       b.Title,
			Domain:      b.Domain,
			BreachDate:  b.BreachDate,
			PwnCount:    b.PwnCount,
			DataClasses: b.DataClasses,
		})
	}
	return out
}

// --- dashboard ---

type dashboardResponse struct {
	Metrics         metricsDTO          `json:"metrics"`
	RiskLevel       model.RiskLevel     `json:"risk_level"`
	PasswordHealth  []healthDTO         `json:"password_health"`
	Alerts          []alertDTO          `json:"alerts"`
	Recommendations []string            `json:"recommendations"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

type metricsDTO struct {
	TotalPasswords    int `json:"total_passwords"`
	WeakPasswords     int `json:"weak_passwords"`
	ReusedPasswords   int `json:"reused_passwords"`
	OldPasswords      int `json:"old_passwords"`
	BreachedPasswords int `json:"breached_passwords"`
	ExpiringPasswords int `json:"expiring_passwords"`
	SecurityScore     int `json:"security_score"`
}

type healthDTO struct {
	PasswordID       string   `json:"password_id"`
	ServiceName      string   `json:"service_name"`
	IsWeak           bool     `json:"is_weak"`
	IsReused         bool     `json:"is_reused"`
	IsOld            bool     `json:"is_old"`
	IsBreached       bool     `json:"is_breached"`
	IsExpiring       bool     `json:"is_expiring"`
	IsExpired        bool     `json:"is_expired"`
	DaysSinceCreated int      `json:"days_since_created"`
	DaysUntilExpiry  *int     `json:"days_until_expiry,omitempty"`
	Recommendations  []string `json:"recommendations"`
}

type alertDTO struct {
	Type        model.AlertType     `json:"type"`
	Severity    model.AlertSeverity `json:"severity"`
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	ServiceName string              `json:"service_name"`
	PasswordID  string              `json:"password_id"`
	Actions     []actionDTO         `json:"actions"`
}

type actionDTO struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	Primary bool   `json:"primary"`
}

func toDashboardResponse(d model.DashboardData) dashboardResponse {
	out := dashboardResponse{
		Metrics: metricsDTO{
			TotalPasswords:    d.Metrics.TotalPasswords,
			WeakPasswords:     d.Metrics.WeakPasswords,
			ReusedPasswords:   d.Metrics.ReusedPasswords,
			OldPasswords:      d.Metrics.OldPasswords,
			BreachedPasswords: d.Metrics.BreachedPasswords,
			ExpiringPasswords: d.Metrics.ExpiringPasswords,
			SecurityScore:     d.Metrics.SecurityScore,
		},
		RiskLevel:       d.RiskLevel,
		PasswordHealth:  []healthDTO{},
		Alerts:          []alertDTO{},
		Recommendations: d.Recommendations,
		GeneratedAt:     d.GeneratedAt,
	}
	for _, h := range d.PasswordHealth {
		out.PasswordHealth = append(out.PasswordHealth, healthDTO{
			PasswordID:       h.PasswordID.String(),
			ServiceName:      h.ServiceName,
			IsWeak:           h.IsWeak,
			IsReused:         h.IsReused,
			IsOld:            h.IsOld,
			IsBreached:       h.IsBreached,
			IsExpiring:       h.IsExpiring,
			IsExpired:        h.IsExpired,
			DaysSinceCreated: h.DaysSinceCreated,
			DaysUntilExpiry:  h.DaysUntilExpiry,
			Recommendations:  h.Recommendations,
		})
	}
	for _, a := range d.Alerts {
		dto := alertDTO{
			Type:        a.Type,
			Severity:    a.Severity,
			Title:       a.Title,
			Message:     a.Message,
			ServiceName: a.ServiceName,
			PasswordID:  a.PasswordID.String(),
		}
		for _, act := range a.Actions {
			dto.Actions = append(dto.Actions, actionDTO{Code: act.Code, Label: act.Label, Primary: act.Primary})
		}
		out.Alerts = append(out.Alerts, dto)
	}
	return out
}

// --- notification prefs ---

type prefsDTO struct {
	BreachAlerts   bool `json:"breach_alerts"`
	WeakAlerts     bool `json:"weak_alerts"`
	ExpiringAlerts bool `json:"expiring_alerts"`
}

func toPrefsDTO(p model.NotificationPrefs) prefsDTO {
	return prefsDTO{BreachAlerts: p.BreachAlerts, WeakAlerts: p.WeakAlerts, ExpiringAlerts: p.ExpiringAlerts}
}

func fromPrefsDTO(p prefsDTO) model.NotificationPrefs {
	return model.NotificationPrefs{BreachAlerts: p.BreachAlerts, WeakAlerts: p.WeakAlerts, ExpiringAlerts: p.ExpiringAlerts}
}
