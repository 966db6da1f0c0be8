// Package breach queries the public breach-data service. Passwords are checked
// through the k-anonymity range protocol: only the first five characters of
// the SHA-1 hash ever leave the process.
package breach

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vrushal09/passnext/internal/errs"
	"github.com/vrushal09/passnext/internal/model"
)

// Defaults for the public endpoints.
const (
	DefaultRangeBaseURL   = "https://api.pwnedpasswords.com"
	DefaultAccountBaseURL = "https://haveibeenpwned.com/api/v3"
	DefaultUserAgent      = "passnext-security-engine"

	// MinRequestDelay is the enforced gap between range requests in a batch.
	MinRequestDelay = 200 * time.Millisecond
)

const hashPrefixLen = 5

// Config carries endpoint settings; zero values fall back to the defaults.
type Config struct {
	RangeBaseURL   string
	AccountBaseURL string
	APIKey         string // optional hibp-api-key for the account endpoint
	UserAgent      string
	RequestDelay   time.Duration
	Timeout        time.Duration
}

// Client talks to the breach service. Safe for concurrent use.
type Client struct {
	http        *http.Client
	rangeBase   string
	accountBase string
	apiKey      string
	userAgent   string
	delay       time.Duration
	log         *zap.Logger
}

// New constructs a Client with the provided configuration.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.RangeBaseURL == "" {
		cfg.RangeBaseURL = DefaultRangeBaseURL
	}
	if cfg.AccountBaseURL == "" {
		cfg.AccountBaseURL = DefaultAccountBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestDelay < MinRequestDelay {
		cfg.RequestDelay = MinRequestDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		rangeBase:   strings.TrimRight(cfg.RangeBaseURL, "/"),
		accountBase: strings.TrimRight(cfg.AccountBaseURL, "/"),
		apiKey:      cfg.APIKey,
		userAgent:   cfg.UserAgent,
		delay:       cfg.RequestDelay,
		log:         log,
	}
}

// CheckPassword reports whether password appears in known breaches and how
// often. Network or parse failures surface as errors; callers that treat
// breach data as best-effort must degrade to a zero result themselves.
func (c *Client) CheckPassword(ctx context.Context, password string) (model.BreachResult, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := digest[:hashPrefixLen], digest[hashPrefixLen:]

	body, status, err := c.get(ctx, c.rangeBase+"/range/"+prefix, "")
	if err != nil {
		return model.BreachResult{}, err
	}
	if err := statusErr(status); err != nil {
		return model.BreachResult{}, err
	}

	return scanRange(body, suffix)
}

// scanRange walks the newline-delimited "SUFFIX:COUNT" body looking for an
// exact suffix match.
func scanRange(body []byte, suffix string) (model.BreachResult, error) {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cand, countStr, ok := strings.Cut(line, ":")
		if !ok {
			return model.BreachResult{}, fmt.Errorf("malformed range line %q: %w", line, errs.ErrUnavailable)
		}
		if !strings.EqualFold(cand, suffix) {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return model.BreachResult{}, fmt.Errorf("malformed count in %q: %w", line, errs.ErrUnavailable)
		}
		return model.BreachResult{IsBreached: true, BreachCount: count}, nil
	}
	return model.BreachResult{}, nil
}

// accountBreach mirrors the account endpoint's JSON shape.
type accountBreach struct {
	Name        string   `json:"Name"`
	Title       string   `json:"Title"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	PwnCount    int      `json:"PwnCount"`
	DataClasses []string `json:"DataClasses"`
}

// CheckEmail queries the breached-account endpoint. Unlike the range endpoint
// this requires the literal email. A 404 means zero breaches, not an error.
func (c *Client) CheckEmail(ctx context.Context, email string) (model.EmailBreachResult, error) {
	if email == "" {
		return model.EmailBreachResult{}, nil
	}
	u := c.accountBase + "/breachedaccount/" + url.PathEscape(email) + "?truncateResponse=false"
	body, status, err := c.get(ctx, u, c.apiKey)
	if err != nil {
		return model.EmailBreachResult{}, err
	}
	if status == http.StatusNotFound {
		// the account endpoint reports "never breached" as 404
		return model.EmailBreachResult{}, nil
	}
	if err := statusErr(status); err != nil {
		return model.EmailBreachResult{}, err
	}

	var raw []accountBreach
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.EmailBreachResult{}, fmt.Errorf("decode breached-account response: %w", errs.ErrUnavailable)
	}

	out := model.EmailBreachResult{IsBreached: len(raw) > 0, BreachCount: len(raw)}
	for _, b := range raw {
		out.Breaches = append(out.Breaches, model.BreachRecord{
			Name:        b.Name,
			Title:       b.Title,
			Domain:      b.Domain,
			BreachDate:  b.BreachDate,
			PwnCount:    b.PwnCount,
			DataClasses: b.DataClasses,
		})
	}
	return out, nil
}

// CheckMany checks passwords sequentially, inserting the configured delay
// between requests to respect the remote rate limit. A failure on one entry
// degrades that entry to a zero result and never aborts the batch.
func (c *Client) CheckMany(ctx context.Context, passwords []string) map[string]model.BreachResult {
	out := make(map[string]model.BreachResult, len(passwords))
	first := true
	for _, p := range passwords {
		if _, done := out[p]; done {
			continue
		}
		if !first {
			select {
			case <-ctx.Done():
				// remaining entries degrade to not-breached
				out[p] = model.BreachResult{}
				continue
			case <-time.After(c.delay):
			}
		}
		first = false

		res, err := c.CheckPassword(ctx, p)
		if err != nil {
			c.log.Warn("breach check degraded to not-breached", zap.Error(err))
			res = model.BreachResult{}
		}
		out[p] = res
	}
	return out
}

// get performs a GET with the required headers and returns the body and
// status code; err reports transport-level failures only.
func (c *Client) get(ctx context.Context, rawURL, apiKey string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if apiKey != "" {
		req.Header.Set("hibp-api-key", apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("breach service: %w: %v", errs.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("breach service read: %w", errs.ErrUnavailable)
	}
	return body, resp.StatusCode, nil
}

// statusErr maps a non-2xx status to a sentinel-wrapped error.
func statusErr(status int) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("breach service status 429: %w", errs.ErrRateLimited)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("breach service status %d: %w", status, errs.ErrUnavailable)
	}
	return nil
}
