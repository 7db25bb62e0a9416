package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/formsend/client-go/internal/api"
)

// Client talks to the SendGrid v3 API on behalf of one API key.
//
// Every call is a single blocking request; nothing is retried. The scope
// set loaded by LoadScopes is the only state the client keeps, and it is
// safe to share a Client between goroutines.
type Client struct {
	apiClient   *api.Client
	errorLogger ErrorLogger
	now         func() time.Time

	mu     sync.RWMutex
	scopes []string
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(apiKey string, cfg *clientConfig) (*api.Client, error) {
	apiCfg := api.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		UserAgent:  cfg.userAgent,
		Logger:     cfg.logger,
	}

	if cfg.registerer != nil {
		metrics, err := api.NewMetrics(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		apiCfg.Metrics = metrics
	}

	apiClient, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, wrapError(err)
	}
	return apiClient, nil
}

// New creates a new SendGrid client with the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(apiKey, cfg)
	if err != nil {
		return nil, err
	}

	errorLogger := cfg.errorLogger
	if errorLogger == nil {
		if cfg.logger != nil {
			errorLogger = ZapErrorLogger(cfg.logger)
		} else {
			errorLogger = nopErrorLogger
		}
	}

	return &Client{
		apiClient:   apiClient,
		errorLogger: errorLogger,
		now:         time.Now,
	}, nil
}

// GetStats returns global statistics for the last days days, starting at
// today minus days.
func (c *Client) GetStats(ctx context.Context, days int) ([]DailyStats, error) {
	raw, err := c.GetStatsRaw(ctx, days)
	if err != nil {
		return nil, err
	}

	var stats []DailyStats
	if err := decodeInto(raw, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetStatsRaw is GetStats without decoding: it returns the response body
// as received.
func (c *Client) GetStatsRaw(ctx context.Context, days int) (json.RawMessage, error) {
	if days < 0 {
		return nil, ErrInvalidDays
	}

	start := c.now().AddDate(0, 0, -days)
	raw, err := c.apiClient.GetStats(ctx, start)
	if err != nil {
		return nil, wrapError(err)
	}
	return raw, nil
}

// SendEmail validates msg and posts it to mail/send.
func (c *Client) SendEmail(ctx context.Context, msg *Message) (*SendResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.apiClient.SendMail(ctx, msg)
	if err != nil {
		return nil, wrapError(err)
	}

	return &SendResponse{
		StatusCode: resp.StatusCode,
		MessageID:  resp.Header.Get("X-Message-Id"),
		Body:       resp.Body,
	}, nil
}

// HasScope reports whether scope is in the most recently loaded scope set.
// It performs no I/O; before LoadScopes succeeds it always returns false.
func (c *Client) HasScope(scope string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.scopes, scope)
}

// Scopes returns a copy of the cached scope set.
func (c *Client) Scopes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.scopes)
}

// LoadScopes fetches the scopes granted to the API key and caches them.
//
// It never fails: on error the failure is reported once to the
// ErrorLogger and the previously cached set (empty if none) is returned
// unchanged.
func (c *Client) LoadScopes(ctx context.Context) []string {
	scopes, err := c.fetchScopes(ctx)
	if err != nil {
		c.errorLogger.LogError("LoadScopes(): Unable to get SendGrid scopes; " + err.Error())
		return c.Scopes()
	}

	c.mu.Lock()
	c.scopes = scopes
	c.mu.Unlock()

	return slices.Clone(scopes)
}

func (c *Client) fetchScopes(ctx context.Context) ([]string, error) {
	raw, err := c.apiClient.GetScopes(ctx)
	if err != nil {
		return nil, wrapError(err)
	}

	var scopes []string
	if err := decodeInto(raw, &scopes); err != nil {
		return nil, err
	}
	if scopes == nil {
		return nil, &DecodeError{Body: string(raw), Err: errors.New("scopes missing from response")}
	}
	return scopes, nil
}

// decodeInto decodes an already validated JSON value into a typed result.
func decodeInto(raw json.RawMessage, v any) error {
	if err := sonic.Unmarshal(raw, v); err != nil {
		body := string(raw)
		if len(body) > 256 {
			body = body[:256]
		}
		return &DecodeError{Body: body, Err: err}
	}
	return nil
}
