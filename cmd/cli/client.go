// cmd/cli/client.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "passnext")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "passnext")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", errors.New("no token saved (run login first)")
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || (!tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt)) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- API client ----

type apiClient struct {
	base  string
	token string
	httpc *http.Client
}

func newAPIClient(base, token string) *apiClient {
	return &apiClient{base: base, token: token, httpc: &http.Client{Timeout: 15 * time.Second}}
}

type passwordDTO struct {
	ID         string     `json:"id,omitempty"`
	Service    string     `json:"service"`
	Account    string     `json:"account"`
	Secret     string     `json:"secret"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

type strengthDTO struct {
	Score        int      `json:"score"`
	Level        string   `json:"level"`
	Color        string   `json:"color"`
	Percentage   int      `json:"percentage"`
	Warning      string   `json:"warning"`
	Suggestions  []string `json:"suggestions"`
	EntropyBits  float64  `json:"entropy_bits"`
	MeetsMinimum bool     `json:"meets_minimum"`
}

type breachDTO struct {
	IsBreached  bool `json:"is_breached"`
	BreachCount int  `json:"breach_count"`
	Breaches    []struct {
		Title      string `json:"title"`
		Domain     string `json:"domain"`
		BreachDate string `json:"breach_date"`
	} `json:"breaches"`
}

type dashboardDTO struct {
	Metrics struct {
		TotalPasswords    int `json:"total_passwords"`
		WeakPasswords     int `json:"weak_passwords"`
		ReusedPasswords   int `json:"reused_passwords"`
		OldPasswords      int `json:"old_passwords"`
		BreachedPasswords int `json:"breached_passwords"`
		ExpiringPasswords int `json:"expiring_passwords"`
		SecurityScore     int `json:"security_score"`
	} `json:"metrics"`
	RiskLevel string `json:"risk_level"`
	Alerts    []struct {
		Severity    string `json:"severity"`
		Title       string `json:"title"`
		Message     string `json:"message"`
		ServiceName string `json:"service_name"`
	} `json:"alerts"`
	Recommendations []string `json:"recommendations"`
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("server: %s", e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) addPassword(ctx context.Context, in passwordDTO) (passwordDTO, error) {
	var out passwordDTO
	err := c.do(ctx, http.MethodPost, "/api/v1/passwords", in, &out)
	return out, err
}

func (c *apiClient) listPasswords(ctx context.Context) ([]passwordDTO, error) {
	var out []passwordDTO
	err := c.do(ctx, http.MethodGet, "/api/v1/passwords", nil, &out)
	return out, err
}

func (c *apiClient) deletePassword(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/passwords/"+id, nil, nil)
}

func (c *apiClient) analyzeStrength(ctx context.Context, password string) (strengthDTO, error) {
	var out strengthDTO
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze/strength",
		map[string]any{"password": password}, &out)
	return out, err
}

func (c *apiClient) checkPassword(ctx context.Context, password string) (breachDTO, error) {
	var out breachDTO
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze/breach",
		map[string]any{"password": password}, &out)
	return out, err
}

func (c *apiClient) checkEmail(ctx context.Context, email string) (breachDTO, error) {
	var out breachDTO
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze/breach",
		map[string]any{"email": email}, &out)
	return out, err
}

func (c *apiClient) dashboard(ctx context.Context) (dashboardDTO, error) {
	var out dashboardDTO
	err := c.do(ctx, http.MethodGet, "/api/v1/dashboard", nil, &out)
	return out, err
}

func (c *apiClient) backupExport(ctx context.Context) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/backup/export", nil, &out)
	return out.Key, err
}

func (c *apiClient) backupRestore(ctx context.Context, key string) (int, error) {
	var out struct {
		Restored int `json:"restored"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/backup/restore", map[string]string{"key": key}, &out)
	return out.Restored, err
}
