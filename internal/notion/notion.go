// Package notion implements the directory, workload, and profile-stats ports
// against Notion databases.
package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jomei/notionapi"

	"github.com/opsline/dailybot/internal/ports"
)

// Retry policy for Notion calls. Notion rate limits aggressively; the
// original integration retried 3 times at 20 s.
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 20 * time.Second
)

// Property names in the team Notion databases.
const (
	propName      = "Name"
	propDiscordID = "Discord ID"
	propChannelID = "Channel ID"
	propTodoURL   = "TODO"
	propPublic    = "Public"
	propCapacity  = "Capacity"
	propConnects  = "Upwork connects"
)

// Opts holds configuration for the Notion client.
type Opts struct {
	Token         string
	DirectoryDB   string
	WorkloadDB    string
	ProfileDB     string
	RetryAttempts int
	RetryDelay    time.Duration
}

// Option configures the Notion client.
type Option func(*Opts)

// WithToken sets the integration token.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithDirectoryDB sets the team directory database ID.
func WithDirectoryDB(id string) Option {
	return func(o *Opts) { o.DirectoryDB = id }
}

// WithWorkloadDB sets the workload database ID.
func WithWorkloadDB(id string) Option {
	return func(o *Opts) { o.WorkloadDB = id }
}

// WithProfileDB sets the profile stats database ID.
func WithProfileDB(id string) Option {
	return func(o *Opts) { o.ProfileDB = id }
}

// WithRetry overrides the retry policy.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *Opts) {
		o.RetryAttempts = attempts
		o.RetryDelay = delay
	}
}

// Client wraps the Notion API for the three team databases.
type Client struct {
	api           *notionapi.Client
	directoryDB   notionapi.DatabaseID
	workloadDB    notionapi.DatabaseID
	profileDB     notionapi.DatabaseID
	retryAttempts int
	retryDelay    time.Duration
}

// Interface guards.
var (
	_ ports.DirectoryPort    = (*Client)(nil)
	_ ports.DirectoryLister  = (*Client)(nil)
	_ ports.WorkloadPort     = (*Client)(nil)
	_ ports.ProfileStatsPort = (*Client)(nil)
)

// NewClient creates a Notion client from options. The token is required.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("notion.NewClient: creating client", "token_set", cfg.Token != "", "directory_db_set", cfg.DirectoryDB != "")

	if cfg.Token == "" {
		return nil, fmt.Errorf("notion token not set")
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Client{
		api:           notionapi.NewClient(notionapi.Token(cfg.Token)),
		directoryDB:   notionapi.DatabaseID(cfg.DirectoryDB),
		workloadDB:    notionapi.DatabaseID(cfg.WorkloadDB),
		profileDB:     notionapi.DatabaseID(cfg.ProfileDB),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}, nil
}

// withRetry runs fn under the bounded retry policy. The last error wins.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = fn(); err == nil {
			return nil
		}
		slog.Warn("notion: attempt failed", "op", op, "attempt", attempt, "error", err)
		if attempt < c.retryAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, c.retryAttempts, err)
}

// queryOne returns the first page matching the filter, or nil.
func (c *Client) queryOne(ctx context.Context, db notionapi.DatabaseID, filter notionapi.PropertyFilter, op string) (*notionapi.Page, error) {
	var page *notionapi.Page
	err := c.withRetry(ctx, op, func() error {
		resp, err := c.api.Database.Query(ctx, db, &notionapi.DatabaseQueryRequest{
			Filter:   filter,
			PageSize: 1,
		})
		if err != nil {
			return err
		}
		if len(resp.Results) > 0 {
			page = &resp.Results[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Property extraction helpers. Notion returns concrete property types behind
// the Property interface.

func titleValue(prop notionapi.Property) string {
	if tp, ok := prop.(*notionapi.TitleProperty); ok {
		return plainText(tp.Title)
	}
	return ""
}

func richTextValue(prop notionapi.Property) string {
	if rp, ok := prop.(*notionapi.RichTextProperty); ok {
		return plainText(rp.RichText)
	}
	return ""
}

func numberValue(prop notionapi.Property) int {
	if np, ok := prop.(*notionapi.NumberProperty); ok {
		return int(np.Number)
	}
	return 0
}

func checkboxValue(prop notionapi.Property) bool {
	if cp, ok := prop.(*notionapi.CheckboxProperty); ok {
		return cp.Checkbox
	}
	return false
}

func urlValue(prop notionapi.Property) string {
	if up, ok := prop.(*notionapi.URLProperty); ok {
		return up.URL
	}
	return ""
}

func plainText(parts []notionapi.RichText) string {
	out := ""
	for _, part := range parts {
		out += part.PlainText
	}
	return out
}

// richText builds a single-run rich text property for writes.
func richText(content string) *notionapi.RichTextProperty {
	if content == "" {
		return &notionapi.RichTextProperty{RichText: []notionapi.RichText{}}
	}
	return &notionapi.RichTextProperty{
		RichText: []notionapi.RichText{{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: content},
		}},
	}
}
