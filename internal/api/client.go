package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/formsend/client-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.sendgrid.com/v3/"
	DefaultTimeout = 60 * time.Second
)

// Config holds the configuration for creating a new Client.
type Config struct {
	// APIKey is sent as a bearer token on every request. Required.
	APIKey string
	// BaseURL is prefixed to every action. A trailing slash is added when missing.
	BaseURL string
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient replaces the underlying transport client.
	HTTPClient *http.Client
	// UserAgent is sent when non-empty.
	UserAgent string
	// Logger receives per-request debug logs and resty's internal warnings.
	Logger *zap.Logger
	// Metrics records request counts and latencies when non-nil.
	Metrics *Metrics
}

// Client is the HTTP API client.
type Client struct {
	baseURL string
	resty   *resty.Client
	logger  *zap.Logger
	metrics *Metrics
}

// NewClient creates a new API client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apierrors.ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}

	rc.SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logger.Sugar()).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		baseURL: baseURL,
		resty:   rc,
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.resty.GetClient().Timeout
}
