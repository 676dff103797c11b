package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fystack/cardano-auditor/pkg/ratelimiter"
	"github.com/fystack/cardano-auditor/pkg/retry"
)

type AuthType string

const (
	AuthTypeHeader AuthType = "header"
	AuthTypeQuery  AuthType = "query"
)

// AuthConfig holds authentication configuration. Blockfrost uses a
// plain "project_id" header; other REST explorers attach the key as a
// query parameter.
type AuthConfig struct {
	Type  AuthType `json:"type"  yaml:"type"`
	Key   string   `json:"key"   yaml:"key"`
	Value string   `json:"value" yaml:"value"`
}

// StatusError is returned for non-2xx responses so callers can branch
// on the status code.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// IsNotFound reports whether err is a StatusError with code 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

type ClientConfig struct {
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Client is a rate-limited REST client for explorer-style APIs.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	network     string
	auth        *AuthConfig
	rateLimiter *ratelimiter.PooledRateLimiter
	config      ClientConfig
}

func NewClient(
	baseURL, network string,
	auth *AuthConfig,
	cfg ClientConfig,
	rl *ratelimiter.PooledRateLimiter,
) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = retry.DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = retry.DefaultInterval
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		network:     network,
		auth:        auth,
		rateLimiter: rl,
		config:      cfg,
	}
}

// Do performs one REST call with rate limiting and retries. Transient
// failures (network errors, 5xx, 429) are retried up to MaxRetries;
// other non-2xx statuses fail immediately with a *StatusError.
func (c *Client) Do(
	ctx context.Context,
	method, endpoint string,
	body any,
	params map[string]string,
) ([]byte, error) {
	var data []byte

	op := func() error {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx, c.baseURL); err != nil {
				return retry.Permanent(fmt.Errorf("rate limit: %w", err))
			}
		}

		d, err := c.doOnce(ctx, method, endpoint, body, params)
		if err == nil {
			data = d
			return nil
		}

		var se *StatusError
		if errors.As(err, &se) && !retryableStatus(se.StatusCode) {
			return retry.Permanent(err)
		}
		if ctx.Err() != nil {
			return retry.Permanent(err)
		}
		slog.Warn("request failed, retrying",
			"network", c.network, "endpoint", endpoint, "err", err)
		return err
	}

	if err := retry.Constant(op, c.config.RetryDelay, c.config.MaxRetries); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) doOnce(
	ctx context.Context,
	method, endpoint string,
	body any,
	params map[string]string,
) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	if c.auth != nil && c.auth.Type == AuthTypeQuery {
		query.Set(c.auth.Key, c.auth.Value)
	}
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil && c.auth.Type == AuthTypeHeader {
		req.Header.Set(c.auth.Key, c.auth.Value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	slog.Debug("HTTP request completed", "url", reqURL, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: reqURL, Body: string(data)}
	}
	return data, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func (c *Client) GetNetworkType() string { return c.network }
func (c *Client) GetURL() string         { return c.baseURL }

func (c *Client) Close() error {
	if c.rateLimiter != nil {
		c.rateLimiter.Close()
	}
	return nil
}
