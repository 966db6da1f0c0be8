package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/model"
)

type fakeChecker struct {
	res model.BreachResult
	err error
}

func (f *fakeChecker) CheckPassword(context.Context, string) (model.BreachResult, error) {
	return f.res, f.err
}

func record(secret string, createdAgo time.Duration, expiry *time.Time, now time.Time) model.PasswordRecord {
	return model.PasswordRecord{
		ID:         uuid.Must(uuid.NewV4()),
		OwnerID:    uuid.Must(uuid.NewV4()),
		Service:    "example",
		Account:    "user@example.com",
		Secret:     secret,
		CreatedAt:  now.Add(-createdAgo),
		UpdatedAt:  now,
		ExpiryDate: expiry,
	}
}

func TestAnalyze_WeakAndReused(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(&fakeChecker{}, nil)

	rec := record("123456", 24*time.Hour, nil, now)
	h := a.Analyze(context.Background(), rec, []string{"123456", "123456", "other"}, now)

	if !h.IsWeak {
		t.Fatalf("123456 must be weak")
	}
	if !h.IsReused {
		t.Fatalf("secret occurring twice must be reused")
	}
	if h.IsOld {
		t.Fatalf("1-day-old record must not be old")
	}
	if h.DaysSinceCreated != 1 {
		t.Fatalf("want 1 day since created, got %d", h.DaysSinceCreated)
	}
}

func TestAnalyze_ReuseIsReflexive(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(nil, nil)

	rec := record("Unique$ecret42x", time.Hour, nil, now)
	h := a.Analyze(context.Background(), rec, []string{"Unique$ecret42x"}, now)
	if h.IsReused {
		t.Fatalf("single occurrence (itself) is not reuse")
	}
}

func TestAnalyze_OldThreshold(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(nil, nil)

	fresh := a.Analyze(context.Background(), record("x", 89*24*time.Hour, nil, now), nil, now)
	if fresh.IsOld {
		t.Fatalf("89 days is within the threshold")
	}
	stale := a.Analyze(context.Background(), record("x", 91*24*time.Hour, nil, now), nil, now)
	if !stale.IsOld {
		t.Fatalf("91 days is past the threshold")
	}
}

func TestAnalyze_ExpiryWindow(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(nil, nil)

	in10 := now.Add(10 * 24 * time.Hour)
	h := a.Analyze(context.Background(), record("x", time.Hour, &in10, now), nil, now)
	if !h.IsExpiring {
		t.Fatalf("10 days out must be expiring")
	}
	if h.DaysUntilExpiry == nil || *h.DaysUntilExpiry != 10 {
		t.Fatalf("want daysUntilExpiry 10, got %v", h.DaysUntilExpiry)
	}
	if h.IsExpired {
		t.Fatalf("10 days out is not expired")
	}

	in20 := now.Add(20 * 24 * time.Hour)
	h = a.Analyze(context.Background(), record("x", time.Hour, &in20, now), nil, now)
	if h.IsExpiring {
		t.Fatalf("20 days out must not be expiring")
	}
	if h.DaysUntilExpiry == nil || *h.DaysUntilExpiry != 20 {
		t.Fatalf("want daysUntilExpiry 20, got %v", h.DaysUntilExpiry)
	}
}

func TestAnalyze_PastDueStillExpiring(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(nil, nil)

	past := now.Add(-48 * time.Hour)
	h := a.Analyze(context.Background(), record("x", time.Hour, &past, now), nil, now)
	if !h.IsExpiring {
		t.Fatalf("past-due record still counts as expiring")
	}
	if !h.IsExpired {
		t.Fatalf("past-due record reports IsExpired")
	}
	if h.DaysUntilExpiry == nil || *h.DaysUntilExpiry != -2 {
		t.Fatalf("want daysUntilExpiry -2, got %v", h.DaysUntilExpiry)
	}
}

func TestAnalyze_NoExpiryDate(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(nil, nil)

	h := a.Analyze(context.Background(), record("x", time.Hour, nil, now), nil, now)
	if h.IsExpiring || h.IsExpired || h.DaysUntilExpiry != nil {
		t.Fatalf("no expiry date: %+v", h)
	}
}

func TestAnalyze_BreachFailureFailsOpen(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(&fakeChecker{err: errors.New("network down")}, nil)

	h := a.Analyze(context.Background(), record("X9$mQ2@pL7#vR4", time.Hour, nil, now), nil, now)
	if h.IsBreached {
		t.Fatalf("checker failure must degrade to not breached")
	}
	// the rest of the report still computed
	if len(h.Recommendations) == 0 {
		t.Fatalf("recommendations missing")
	}
}

func TestRecommendations_PriorityOrder(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(&fakeChecker{res: model.BreachResult{IsBreached: true, BreachCount: 3}}, nil)

	past := now.Add(-time.Hour)
	rec := record("123456", 100*24*time.Hour, &past, now)
	h := a.Analyze(context.Background(), rec, []string{"123456", "123456"}, now)

	want := []string{recBreached, recWeak, recReused, recOld, recExpiring}
	if len(h.Recommendations) != len(want) {
		t.Fatalf("want %d recommendations, got %v", len(want), h.Recommendations)
	}
	for i, w := range want {
		if h.Recommendations[i] != w {
			t.Fatalf("recommendation[%d]: want %q, got %q", i, w, h.Recommendations[i])
		}
	}
}

func TestRecommendations_SecureFallback(t *testing.T) {
	t.Parallel()
	now := time.Now()
	a := NewAnalyzer(&fakeChecker{}, nil)

	h := a.Analyze(context.Background(), record("X9$mQ2@pL7#vR4w8", time.Hour, nil, now), []string{"X9$mQ2@pL7#vR4w8"}, now)
	if len(h.Recommendations) != 1 || h.Recommendations[0] != recSecure {
		t.Fatalf("want single secure message, got %v", h.Recommendations)
	}
}
