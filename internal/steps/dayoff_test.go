package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/opsline/dailybot/internal/models"
)

func TestDayOffHandlerRecordsDates(t *testing.T) {
	calendar := okCalendar()
	ledger := newFakeLedger()
	h := NewDayOffHandler(calendar, ledger)

	result, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Author:    "Олена",
		Command:   models.StepDayOffNextWeek,
		Result:    &models.StepResult{DaysSelected: []string{"2025-06-09", "2025-06-10"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calendar.dayOffs) != 2 {
		t.Errorf("expected 2 calendar events, got %v", calendar.dayOffs)
	}
	if done := ledger.upserts[models.StepDayOffNextWeek]; !done {
		t.Error("expected day_off_nextweek marked complete")
	}
	if want := models.MsgDayOff([]string{"2025-06-09", "2025-06-10"}); result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
}

func TestDayOffHandlerNothing(t *testing.T) {
	calendar := okCalendar()
	ledger := newFakeLedger()
	h := NewDayOffHandler(calendar, ledger)

	result, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Command:   models.StepDayOffNextWeek,
		Result:    &models.StepResult{Value: models.ValueNothing},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calendar.dayOffs) != 0 {
		t.Error("explicit decline must not touch the calendar")
	}
	if done := ledger.upserts[models.StepDayOffNextWeek]; !done {
		t.Error("expected decline to complete the step")
	}
	if result.Message != models.MsgNothingPlanned {
		t.Errorf("message = %q", result.Message)
	}
	if v, ok := result.Value.(models.DayOffValue); !ok || !v.Nothing {
		t.Errorf("unexpected value: %#v", result.Value)
	}
}

func TestDayOffHandlerInvalidDateBeforeCalendar(t *testing.T) {
	calendar := okCalendar()
	ledger := newFakeLedger()
	h := NewDayOffHandler(calendar, ledger)

	_, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Command:   models.StepDayOffNextWeek,
		Result:    &models.StepResult{DaysSelected: []string{"2025-06-09", "not-a-date"}},
	})

	var dateErr *models.InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected InvalidDateError, got %v", err)
	}
	if dateErr.Date != "not-a-date" {
		t.Errorf("error names %q, want the offending date", dateErr.Date)
	}
	if len(calendar.dayOffs) != 0 {
		t.Error("no calendar call may happen before all dates validate")
	}
	if len(ledger.upserts) != 0 {
		t.Error("ledger must stay untouched on validation failure")
	}
}

func TestDayOffHandlerCalendarRejection(t *testing.T) {
	calendar := &fakeCalendar{result: models.CalendarResult{Status: "error", Message: "зайнято"}}
	ledger := newFakeLedger()
	h := NewDayOffHandler(calendar, ledger)

	_, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Command:   models.StepDayOffNextWeek,
		Result:    &models.StepResult{DaysSelected: []string{"2025-06-09"}},
	})

	var calErr *models.CalendarError
	if !errors.As(err, &calErr) {
		t.Fatalf("expected CalendarError, got %v", err)
	}
	if calErr.Message != "зайнято" {
		t.Errorf("expected the calendar's own message, got %q", calErr.Message)
	}
	if len(ledger.upserts) != 0 {
		t.Error("ledger must stay untouched when the calendar rejects")
	}
}

func TestDayOffHandlerMissingDates(t *testing.T) {
	h := NewDayOffHandler(okCalendar(), newFakeLedger())

	_, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Command:   models.StepDayOffNextWeek,
	})
	if !errors.Is(err, models.ErrMissingValue) {
		t.Errorf("expected ErrMissingValue, got %v", err)
	}
}

func TestDayOffHandlerStepNameFromCommand(t *testing.T) {
	ledger := newFakeLedger()
	h := NewDayOffHandler(okCalendar(), ledger)

	if _, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Command:   models.StepDayOffThisWeek,
		Result:    &models.StepResult{DaysSelected: []string{"2025-06-05"}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done := ledger.upserts[models.StepDayOffThisWeek]; !done {
		t.Error("expected the ledger step name to follow the command")
	}
}
