package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := loadToken(); err == nil {
		t.Fatalf("want error before login")
	}
	if err := saveToken("abc.def.ghi", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	tok, err := loadToken()
	if err != nil || tok != "abc.def.ghi" {
		t.Fatalf("loadToken: %q %v", tok, err)
	}
}

func TestTokenStoreRejectsExpired(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := saveToken("stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	if _, err := loadToken(); err == nil {
		t.Fatalf("want error for expired token")
	}
}

func TestClientSendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]passwordDTO{})
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL, "tok123")
	if _, err := c.listPasswords(context.Background()); err != nil {
		t.Fatalf("listPasswords: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("auth header %q", gotAuth)
	}
}

func TestClientSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL, "tok")
	err := c.deletePassword(context.Background(), "some-id")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("want server error, got %v", err)
	}
}

func TestClientParsesDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{
			"metrics": {"total_passwords": 3, "security_score": 77},
			"risk_level": "medium",
			"alerts": [{"severity": "medium", "title": "Reused password", "service_name": "mail"}],
			"recommendations": ["update 2 reused passwords"]
		}`))
	}))
	defer srv.Close()

	d, err := newAPIClient(srv.URL, "tok").dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Metrics.SecurityScore != 77 || d.RiskLevel != "medium" || len(d.Alerts) != 1 {
		t.Fatalf("parsed: %+v", d)
	}
}
