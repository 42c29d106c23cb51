// Package calendar posts day-off and vacation events to the team calendar
// webhook.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
)

// DefaultTimeout bounds one webhook call.
const DefaultTimeout = 15 * time.Second

// Opts holds calendar client configuration.
type Opts struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Option configures the calendar client.
type Option func(*Opts)

// WithWebhookURL sets the calendar webhook endpoint.
func WithWebhookURL(url string) Option {
	return func(o *Opts) { o.WebhookURL = url }
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

// Client calls the calendar webhook.
type Client struct {
	url    string
	token  string
	client *http.Client
}

var _ ports.CalendarPort = (*Client)(nil)

// NewClient creates a calendar client from options. The webhook URL is
// required.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("calendar webhook URL not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	slog.Debug("calendar.NewClient: creating client", "url", cfg.WebhookURL)
	return &Client{url: cfg.WebhookURL, token: cfg.Token, client: client}, nil
}

type eventRequest struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Date  string `json:"date,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	TZ    string `json:"tz,omitempty"`
}

// CreateDayOff creates a single-day event. A non-ok status in the result is a
// business rejection, not an error.
func (c *Client) CreateDayOff(ctx context.Context, name, date string) (models.CalendarResult, error) {
	return c.post(ctx, eventRequest{Kind: "day_off", Name: name, Date: date})
}

// CreateVacation creates a ranged event.
func (c *Client) CreateVacation(ctx context.Context, name, start, end, tz string) (models.CalendarResult, error) {
	return c.post(ctx, eventRequest{Kind: "vacation", Name: name, Start: start, End: end, TZ: tz})
}

func (c *Client) post(ctx context.Context, event eventRequest) (models.CalendarResult, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return models.CalendarResult{}, fmt.Errorf("failed to marshal calendar event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return models.CalendarResult{}, fmt.Errorf("failed to create calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.CalendarResult{}, fmt.Errorf("calendar webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.CalendarResult{}, fmt.Errorf("failed to read calendar response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("Calendar.post: non-200 response", "kind", event.Kind, "status", resp.StatusCode)
		return models.CalendarResult{}, fmt.Errorf("calendar webhook returned status %d", resp.StatusCode)
	}

	var result models.CalendarResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.CalendarResult{}, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	slog.Debug("Calendar.post: event submitted", "kind", event.Kind, "status", result.Status)
	return result, nil
}
