package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/timeutil"
)

// VacationTZ is the zone name passed to the calendar for vacation ranges.
const VacationTZ = "Europe/Kyiv"

// VacationHandler creates a single ranged calendar event.
type VacationHandler struct {
	calendar ports.CalendarPort
	ledger   ports.LedgerPort
}

// NewVacationHandler creates the vacation handler.
func NewVacationHandler(calendar ports.CalendarPort, ledger ports.LedgerPort) *VacationHandler {
	return &VacationHandler{calendar: calendar, ledger: ledger}
}

// Handle validates both endpoints, creates the event, and — only when invoked
// as a survey step — marks the step complete.
func (h *VacationHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	if p.Result == nil || p.Result.StartDate == "" || p.Result.EndDate == "" {
		return Result{}, models.ErrMissingValue
	}

	start, err := timeutil.ParseDateTime(p.Result.StartDate)
	if err != nil {
		return Result{}, &models.InvalidDateError{Date: p.Result.StartDate}
	}
	end, err := timeutil.ParseDateTime(p.Result.EndDate)
	if err != nil {
		return Result{}, &models.InvalidDateError{Date: p.Result.EndDate}
	}
	if end.Before(start) {
		return Result{}, &models.InvalidDateError{Date: p.Result.EndDate}
	}

	res, err := h.calendar.CreateVacation(ctx, p.Author, p.Result.StartDate, p.Result.EndDate, VacationTZ)
	if err != nil {
		return Result{}, fmt.Errorf("calendar: %w", err)
	}
	if res.Status != models.CalendarStatusOK {
		slog.Warn("VacationHandler.Handle: calendar rejected event", "channelID", p.ChannelID, "message", res.Message)
		return Result{}, &models.CalendarError{Message: res.Message}
	}

	if p.Survey {
		if err := h.ledger.UpsertStep(ctx, p.ChannelID, models.StepVacation, true); err != nil {
			return Result{}, err
		}
	}

	slog.Info("VacationHandler.Handle: vacation recorded", "channelID", p.ChannelID, "eventID", res.EventID)
	return Result{
		Message: models.MsgVacation(timeutil.FormatUkr(start), timeutil.FormatUkr(end)),
		Value:   models.VacationValue{Start: p.Result.StartDate, End: p.Result.EndDate},
	}, nil
}
