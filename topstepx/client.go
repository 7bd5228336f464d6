// Package topstepx is a minimal client for the TopstepX (ProjectX) REST
// API: key-based authentication, account search, and trade search.
//
// Every response carries an application-level success flag and numeric
// error code independent of the HTTP status; the client checks both.
package topstepx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.topstepx.com"

	requestTimeout = 10 * time.Second

	// Conservative client-side rate limit; the ingest workload is a
	// handful of requests per run.
	requestsPerSec = 4

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Credentials are the long-lived TopstepX API credentials exchanged for
// a short-lived session token.
type Credentials struct {
	UserName string
	APIKey   string
}

// Client talks to the TopstepX API. It caches the session token for its
// own lifetime; create one client per run.
type Client struct {
	baseURL string
	creds   Credentials
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient returns a client for baseURL, or the production endpoint if
// baseURL is empty.
func NewClient(baseURL string, creds Credentials, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(requestsPerSec, 2),
		log:     log.With().Str("component", "topstepx").Logger(),
	}
}

// post sends a JSON POST and returns the final HTTP status and raw body.
// Transport errors, 429s, and 5xx responses are retried with exponential
// backoff; anything else is returned to the caller for classification.
func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + path
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return 0, nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return 0, nil, fmt.Errorf("post %s after %d retries: %w", path, maxRetries, err)
			}
			c.log.Warn().Err(err).Str("path", path).Int("attempt", attempt+1).
				Msg("request failed, retrying")
			c.sleep(ctx, attempt)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return 0, nil, fmt.Errorf("read response from %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if attempt == maxRetries {
				return resp.StatusCode, body, nil
			}
			c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Int("attempt", attempt+1).
				Msg("server error, retrying")
			c.sleep(ctx, attempt)
			continue
		}

		return resp.StatusCode, body, nil
	}
}

// sleep waits with exponential backoff, respecting the context.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// snippet trims a response body for inclusion in error messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	return s
}
