package steps

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/timeutil"
)

// NextWeekPlanField is the workload column holding next week's planned hours.
const NextWeekPlanField = "Next week plan"

// hoursFrom extracts a non-negative hours value. value and workload are
// accepted as synonyms.
func hoursFrom(r *models.StepResult) (int, error) {
	if r == nil {
		return 0, models.ErrMissingValue
	}
	if r.Workload != nil {
		if *r.Workload < 0 {
			return 0, models.ErrInvalidHours
		}
		return *r.Workload, nil
	}
	hours, ok := r.IntValue()
	if !ok {
		return 0, models.ErrMissingValue
	}
	if hours < 0 {
		return 0, models.ErrInvalidHours
	}
	return hours, nil
}

// WorkloadTodayHandler writes today's planned hours into the workload
// database and reports the week so far.
type WorkloadTodayHandler struct {
	workload ports.WorkloadPort
	ledger   ports.LedgerPort
	clock    ports.Clock
}

// NewWorkloadTodayHandler creates the workload_today handler.
func NewWorkloadTodayHandler(workload ports.WorkloadPort, ledger ports.LedgerPort, clock ports.Clock) *WorkloadTodayHandler {
	return &WorkloadTodayHandler{workload: workload, ledger: ledger, clock: clock}
}

// Handle writes hours into "<DayShort> Plan" for the payload's weekday,
// sums the recorded facts up to today, and marks the step complete.
func (h *WorkloadTodayHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	hours, err := hoursFrom(p.Result)
	if err != nil {
		return Result{}, err
	}

	row, err := h.workload.FindRow(ctx, p.Author)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrNotionError, err)
	}
	if row == nil {
		return Result{}, fmt.Errorf("%w: no workload row for %s", models.ErrNotionError, p.Author)
	}

	at := h.clock.NowIn(timeutil.Kyiv)
	if p.Timestamp > 0 {
		at = time.Unix(p.Timestamp, 0).In(timeutil.Kyiv)
	}
	dayIdx := timeutil.WeekdayIndex(at)

	field := timeutil.DayShort(dayIdx) + " Plan"
	if err := h.workload.UpdateField(ctx, row.PageID, field, hours); err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrNotionError, err)
	}

	recorded := 0
	for i := 0; i <= dayIdx; i++ {
		recorded += row.Facts[i]
	}

	if err := h.ledger.UpsertStep(ctx, p.ChannelID, models.StepWorkloadToday, true); err != nil {
		return Result{}, err
	}

	slog.Info("WorkloadTodayHandler.Handle: plan recorded", "channelID", p.ChannelID, "field", field, "hours", hours)
	return Result{
		Message: models.MsgWorkloadToday(hours, recorded, row.Capacity),
		Value:   models.WorkloadValue{Hours: hours},
	}, nil
}

// WorkloadNextWeekHandler writes next week's planned hours.
type WorkloadNextWeekHandler struct {
	workload ports.WorkloadPort
	ledger   ports.LedgerPort
}

// NewWorkloadNextWeekHandler creates the workload_nextweek handler.
func NewWorkloadNextWeekHandler(workload ports.WorkloadPort, ledger ports.LedgerPort) *WorkloadNextWeekHandler {
	return &WorkloadNextWeekHandler{workload: workload, ledger: ledger}
}

// Handle writes hours into the "Next week plan" column and marks the step
// complete.
func (h *WorkloadNextWeekHandler) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	hours, err := hoursFrom(p.Result)
	if err != nil {
		return Result{}, err
	}

	row, err := h.workload.FindRow(ctx, p.Author)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrNotionError, err)
	}
	if row == nil {
		return Result{}, fmt.Errorf("%w: no workload row for %s", models.ErrNotionError, p.Author)
	}

	if err := h.workload.UpdateField(ctx, row.PageID, NextWeekPlanField, hours); err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrNotionError, err)
	}

	if err := h.ledger.UpsertStep(ctx, p.ChannelID, models.StepWorkloadNextWeek, true); err != nil {
		return Result{}, err
	}

	slog.Info("WorkloadNextWeekHandler.Handle: plan recorded", "channelID", p.ChannelID, "hours", hours)
	return Result{
		Message: models.MsgWorkloadNextWeek(hours),
		Value:   models.WorkloadValue{Hours: hours},
	}, nil
}
