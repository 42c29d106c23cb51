package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
)

// RegisterHandler binds a Discord channel to a directory member.
type RegisterHandler struct {
	directory ports.DirectoryPort
}

// NewRegisterHandler creates the register handler.
func NewRegisterHandler(directory ports.DirectoryPort) *RegisterHandler {
	return &RegisterHandler{directory: directory}
}

// Handle looks up the directory by channel, falling back to the provided
// name, and binds (discord_id, channel_id) on the matched page.
func (h *RegisterHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	slog.Debug("RegisterHandler.Handle: register requested", "channelID", p.ChannelID, "userID", p.UserID)

	rec, err := h.directory.FindByChannel(ctx, p.ChannelID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}

	if rec == nil {
		name := ""
		if p.Result != nil {
			name = p.Result.Text
		}
		if name == "" {
			return Result{}, models.ErrMissingValue
		}
		rec, err = h.directory.FindByName(ctx, name)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
		}
		if rec == nil {
			slog.Info("RegisterHandler.Handle: name not found", "channelID", p.ChannelID)
			return Result{}, models.ErrNameNotFound
		}
	}

	if rec.DiscordID != "" && rec.DiscordID != p.UserID {
		slog.Warn("RegisterHandler.Handle: channel taken", "channelID", p.ChannelID)
		return Result{}, models.ErrChannelTaken
	}

	if err := h.directory.UpdateIDs(ctx, rec.PageID, p.UserID, p.ChannelID); err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}

	slog.Info("RegisterHandler.Handle: channel registered", "channelID", p.ChannelID, "name", rec.Name)
	return Result{Message: models.MsgRegistered(rec.Name), Value: models.TextValue{Text: rec.Name}}, nil
}

// UnregisterHandler clears a channel's directory binding.
type UnregisterHandler struct {
	directory ports.DirectoryPort
}

// NewUnregisterHandler creates the unregister handler.
func NewUnregisterHandler(directory ports.DirectoryPort) *UnregisterHandler {
	return &UnregisterHandler{directory: directory}
}

// Handle finds the directory page by channel and clears both ID fields.
func (h *UnregisterHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	slog.Debug("UnregisterHandler.Handle: unregister requested", "channelID", p.ChannelID)

	rec, err := h.directory.FindByChannel(ctx, p.ChannelID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}
	if rec == nil {
		return Result{Message: models.MsgNotRegistered}, nil
	}

	if err := h.directory.ClearIDs(ctx, rec.PageID); err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}

	slog.Info("UnregisterHandler.Handle: channel unregistered", "channelID", p.ChannelID)
	return Result{Message: models.MsgUnregistered}, nil
}

// CheckChannelHandler reports whether a channel is registered and to whom.
type CheckChannelHandler struct {
	directory ports.DirectoryPort
}

// NewCheckChannelHandler creates the check_channel handler.
func NewCheckChannelHandler(directory ports.DirectoryPort) *CheckChannelHandler {
	return &CheckChannelHandler{directory: directory}
}

// Handle looks up the channel's directory record.
func (h *CheckChannelHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	rec, err := h.directory.FindByChannel(ctx, p.ChannelID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}
	if rec == nil {
		return Result{Message: models.MsgNotRegistered}, nil
	}
	return Result{Message: models.MsgCheckChannelRegistered(rec.Name)}, nil
}
