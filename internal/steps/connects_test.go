package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/opsline/dailybot/internal/models"
)

func TestConnectsHandler(t *testing.T) {
	ledger := newFakeLedger()
	sink := &fakeSink{}
	profile := &fakeProfile{pageID: "pr1"}
	h := NewConnectsHandler(ledger, sink, profile)

	result, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Author:    "Олена",
		Result:    &models.StepResult{Connects: intPtr(12)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if done := ledger.upserts[models.StepConnectsThisWeek]; !done {
		t.Error("expected connects_thisweek marked complete")
	}
	if len(sink.posts) != 1 || sink.posts[0] != 12 {
		t.Errorf("expected sink post 12, got %v", sink.posts)
	}
	if len(profile.updates) != 1 || profile.updates[0] != 12 {
		t.Errorf("expected profile update 12, got %v", profile.updates)
	}
	if want := models.MsgConnects(12); result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
}

func TestConnectsHandlerSinkFailure(t *testing.T) {
	ledger := newFakeLedger()
	sink := &fakeSink{err: errors.New("sink down")}
	h := NewConnectsHandler(ledger, sink, &fakeProfile{})

	_, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Author:    "Олена",
		Result:    &models.StepResult{Connects: intPtr(5)},
	})
	if err == nil {
		t.Fatal("expected error when sink post fails")
	}
}

func TestConnectsHandlerProfileFailureIsBestEffort(t *testing.T) {
	ledger := newFakeLedger()
	profile := &fakeProfile{pageID: "pr1", writeErr: errors.New("rate limited")}
	h := NewConnectsHandler(ledger, &fakeSink{}, profile)

	if _, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Author:    "Олена",
		Result:    &models.StepResult{Connects: intPtr(3)},
	}); err != nil {
		t.Fatalf("profile failure must not fail the handler: %v", err)
	}
}

func TestConnectsHandlerNoProfilePage(t *testing.T) {
	profile := &fakeProfile{}
	h := NewConnectsHandler(newFakeLedger(), &fakeSink{}, profile)

	if _, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Author:    "Олена",
		Result:    &models.StepResult{Connects: intPtr(3)},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profile.updates) != 0 {
		t.Error("no profile update expected without a stats page")
	}
}

func TestConnectsHandlerInvalidCount(t *testing.T) {
	h := NewConnectsHandler(newFakeLedger(), &fakeSink{}, &fakeProfile{})

	_, err := h.Handle(context.Background(), models.BotRequestPayload{
		ChannelID: "ch1",
		Result:    &models.StepResult{Connects: intPtr(-2)},
	})
	if !errors.Is(err, models.ErrInvalidCount) {
		t.Errorf("expected ErrInvalidCount, got %v", err)
	}

	_, err = h.Handle(context.Background(), models.BotRequestPayload{ChannelID: "ch1"})
	if !errors.Is(err, models.ErrMissingValue) {
		t.Errorf("expected ErrMissingValue, got %v", err)
	}
}
