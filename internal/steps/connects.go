package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
)

// ConnectsHandler records the weekly Upwork connects count: ledger first,
// then the external sink, then a best-effort profile stats update.
type ConnectsHandler struct {
	ledger  ports.LedgerPort
	sink    ports.ConnectsSinkPort
	profile ports.ProfileStatsPort
}

// NewConnectsHandler creates the connects_thisweek handler.
func NewConnectsHandler(ledger ports.LedgerPort, sink ports.ConnectsSinkPort, profile ports.ProfileStatsPort) *ConnectsHandler {
	return &ConnectsHandler{ledger: ledger, sink: sink, profile: profile}
}

// Handle upserts the ledger step, posts {name, connects} to the sink, and
// writes the profile stats page when one exists. A profile failure is logged
// but does not fail the handler.
func (h *ConnectsHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	n, err := connectsFrom(p.Result)
	if err != nil {
		return Result{}, err
	}

	if err := h.ledger.UpsertStep(ctx, p.ChannelID, models.StepConnectsThisWeek, true); err != nil {
		return Result{}, err
	}

	if err := h.sink.Post(ctx, p.Author, n); err != nil {
		return Result{}, fmt.Errorf("connects sink: %w", err)
	}

	pageID, err := h.profile.GetByName(ctx, p.Author)
	if err != nil {
		slog.Warn("ConnectsHandler.Handle: profile lookup failed", "error", err, "author", p.Author)
	} else if pageID != "" {
		if err := h.profile.UpdateConnects(ctx, pageID, n); err != nil {
			slog.Warn("ConnectsHandler.Handle: profile update failed", "error", err, "author", p.Author)
		}
	}

	slog.Info("ConnectsHandler.Handle: connects recorded", "channelID", p.ChannelID, "connects", n)
	return Result{Message: models.MsgConnects(n), Value: models.ConnectsValue{N: n}}, nil
}

// connectsFrom extracts a non-negative connects count. result.connects and
// result.value are synonyms.
func connectsFrom(r *models.StepResult) (int, error) {
	if r == nil {
		return 0, models.ErrMissingValue
	}
	if r.Connects != nil {
		if *r.Connects < 0 {
			return 0, models.ErrInvalidCount
		}
		return *r.Connects, nil
	}
	n, ok := r.IntValue()
	if !ok {
		return 0, models.ErrMissingValue
	}
	if n < 0 {
		return 0, models.ErrInvalidCount
	}
	return n, nil
}
