package steps

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/timeutil"
)

// DayOffHandler records day-off dates as calendar events. It serves both
// day_off_thisweek and day_off_nextweek; the ledger step name comes from the
// payload command.
type DayOffHandler struct {
	calendar ports.CalendarPort
	ledger   ports.LedgerPort
}

// NewDayOffHandler creates the day-off handler.
func NewDayOffHandler(calendar ports.CalendarPort, ledger ports.LedgerPort) *DayOffHandler {
	return &DayOffHandler{calendar: calendar, ledger: ledger}
}

// Handle validates every submitted date before any calendar call, creates one
// event per date, then marks the step complete. "Nothing" declines without
// touching the calendar. Any failure leaves the ledger untouched.
func (h *DayOffHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	stepName := p.Command
	if stepName == "" {
		stepName = models.StepDayOffNextWeek
	}

	dates := datesFrom(p.Result)
	if len(dates) == 0 {
		return Result{}, models.ErrMissingValue
	}

	if isNothing(dates) {
		if err := h.ledger.UpsertStep(ctx, p.ChannelID, stepName, true); err != nil {
			return Result{}, err
		}
		slog.Info("DayOffHandler.Handle: explicit decline", "channelID", p.ChannelID, "step", stepName)
		return Result{
			Message: models.MsgNothingPlanned,
			Value:   models.DayOffValue{Nothing: true},
		}, nil
	}

	// All dates are validated before the first calendar call.
	for _, date := range dates {
		if !timeutil.ValidISODate(date) {
			slog.Warn("DayOffHandler.Handle: invalid date", "channelID", p.ChannelID, "date", date)
			return Result{}, &models.InvalidDateError{Date: date}
		}
	}

	for _, date := range dates {
		res, err := h.calendar.CreateDayOff(ctx, p.Author, date)
		if err != nil {
			return Result{}, fmt.Errorf("calendar: %w", err)
		}
		if res.Status != models.CalendarStatusOK {
			slog.Warn("DayOffHandler.Handle: calendar rejected event", "channelID", p.ChannelID, "date", date, "message", res.Message)
			return Result{}, &models.CalendarError{Message: res.Message}
		}
	}

	if err := h.ledger.UpsertStep(ctx, p.ChannelID, stepName, true); err != nil {
		return Result{}, err
	}

	slog.Info("DayOffHandler.Handle: days off recorded", "channelID", p.ChannelID, "step", stepName, "count", len(dates))
	return Result{
		Message: models.MsgDayOff(dates),
		Value:   models.DayOffValue{Dates: dates},
	}, nil
}

// datesFrom extracts the submitted dates. result.daysSelected and
// result.value are synonyms; a bare string becomes a single-element list.
func datesFrom(r *models.StepResult) []string {
	if r == nil {
		return nil
	}
	if len(r.DaysSelected) > 0 {
		return r.DaysSelected
	}
	return r.StringList()
}

// isNothing reports an explicit decline: "Nothing" or ["Nothing"].
func isNothing(dates []string) bool {
	return len(dates) == 1 && strings.EqualFold(dates[0], models.ValueNothing)
}
