// Package discord is the Discord transport: it renders survey steps as
// interactive components, normalizes slash commands, component submissions,
// and mentions into payloads, and applies router directives back to the
// channel.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/survey"
	"github.com/opsline/dailybot/internal/timeutil"
)

// Dispatcher consumes normalized payloads and returns the canonical response.
// The router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, p models.BotRequestPayload) models.RouterResponse
}

// Opts holds Discord client configuration.
type Opts struct {
	Token   string
	GuildID string
	Clock   ports.Clock
}

// Option configures the Discord client.
type Option func(*Opts)

// WithToken sets the bot token.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithGuildID scopes slash command registration to one guild. Empty registers
// globally.
func WithGuildID(id string) Option {
	return func(o *Opts) { o.GuildID = id }
}

// WithClock overrides the clock used for date option rendering.
func WithClock(clock ports.Clock) Option {
	return func(o *Opts) { o.Clock = clock }
}

// Client is the Discord gateway connection plus the survey UI renderer.
type Client struct {
	session    *discordgo.Session
	guildID    string
	clock      ports.Clock
	dispatcher Dispatcher
	registry   *survey.Registry

	commandIDs []string
}

var _ ports.ChatPort = (*Client)(nil)

// NewClient creates a Discord client from options. The token is required.
// Wiring the dispatcher and registry happens in Attach, after both exist.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token not set")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	if cfg.Clock == nil {
		cfg.Clock = timeutil.SystemClock{}
	}

	slog.Debug("discord.NewClient: session created", "guild_scoped", cfg.GuildID != "")
	return &Client{
		session: session,
		guildID: cfg.GuildID,
		clock:   cfg.Clock,
	}, nil
}

// Attach wires the dispatcher and the flow registry. Must be called before
// Start.
func (c *Client) Attach(dispatcher Dispatcher, registry *survey.Registry) {
	c.dispatcher = dispatcher
	c.registry = registry
}

// Start opens the gateway connection, registers the event handlers, and
// publishes the slash commands.
func (c *Client) Start(ctx context.Context) error {
	if c.dispatcher == nil || c.registry == nil {
		return fmt.Errorf("discord client not attached")
	}

	c.session.AddHandler(c.onInteraction)
	c.session.AddHandler(c.onMessage)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	slog.Info("Discord.Start: gateway connected", "user", c.session.State.User.Username)

	if err := c.registerCommands(); err != nil {
		c.session.Close()
		return err
	}
	return nil
}

// Stop removes the registered commands and closes the gateway.
func (c *Client) Stop() error {
	appID := c.session.State.User.ID
	for _, id := range c.commandIDs {
		if err := c.session.ApplicationCommandDelete(appID, c.guildID, id); err != nil {
			slog.Warn("Discord.Stop: command delete failed", "error", err, "commandID", id)
		}
	}
	slog.Info("Discord.Stop: closing gateway")
	return c.session.Close()
}
