// Package connects posts weekly Upwork connects counts to the reporting sink.
package connects

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opsline/dailybot/internal/ports"
)

// DefaultTimeout bounds one sink call.
const DefaultTimeout = 15 * time.Second

// Opts holds sink client configuration.
type Opts struct {
	URL        string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Option configures the sink client.
type Option func(*Opts)

// WithURL sets the sink endpoint.
func WithURL(url string) Option {
	return func(o *Opts) { o.URL = url }
}

// WithToken sets the bearer token sent with each call.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = client }
}

// Client posts to the connects sink.
type Client struct {
	url    string
	token  string
	client *http.Client
}

var _ ports.ConnectsSinkPort = (*Client)(nil)

// NewClient creates a sink client from options. The URL is required.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("connects sink URL not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	slog.Debug("connects.NewClient: creating client", "url", cfg.URL)
	return &Client{url: cfg.URL, token: cfg.Token, client: client}, nil
}

type postRequest struct {
	Name     string `json:"name"`
	Connects int    `json:"connects"`
}

// Post submits one member's weekly count. Any non-2xx response is an error.
func (c *Client) Post(ctx context.Context, name string, connects int) error {
	body, err := json.Marshal(postRequest{Name: name, Connects: connects})
	if err != nil {
		return fmt.Errorf("failed to marshal connects payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create connects request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connects sink unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Connects.Post: non-2xx response", "name", name, "status", resp.StatusCode)
		return fmt.Errorf("connects sink returned status %d", resp.StatusCode)
	}
	slog.Info("Connects.Post: count submitted", "name", name, "connects", connects)
	return nil
}
