package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the authentication and connection settings for Jira Cloud.
type Config struct {
	Domain string
	Email  string
	APIKey string

	// RequestDelay spaces out consecutive API calls.
	RequestDelay time.Duration
}

// Client is a thin wrapper around the Jira Cloud REST API: basic auth,
// JSON request/response, request throttling.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	lastRequest time.Time
}

// NewClient creates a client for the configured Jira domain.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *Client) buildURL(path string, params url.Values) string {
	u := strings.TrimRight(c.cfg.Domain, "/") + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) throttle() {
	if c.cfg.RequestDelay <= 0 {
		return
	}
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling Jira request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

// Do performs an API request and decodes the JSON response into out.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	c.throttle()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("jira: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	reqURL := c.buildURL(path, params)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("url", reqURL).Msg("Jira request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jira: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("jira: %s %s returned %d: %s", method, path, resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("jira: decoding response: %w", err)
	}
	return nil
}
