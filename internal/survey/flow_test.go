package survey

import (
	"testing"
	"time"

	"github.com/opsline/dailybot/internal/models"
)

func testSteps() []models.SurveyStep {
	return []models.SurveyStep{
		{Name: models.StepWorkloadToday, Description: "a"},
		{Name: models.StepConnectsThisWeek, Description: "b"},
		{Name: models.StepDayOffNextWeek, Description: "c"},
	}
}

func TestFlowAdvance(t *testing.T) {
	f := NewFlow("ch1", "u1", "ch1_u1", testSteps())

	step, ok := f.CurrentStep()
	if !ok || step.Name != models.StepWorkloadToday {
		t.Fatalf("expected first step, got %v ok=%v", step, ok)
	}
	if f.IsDone() {
		t.Fatal("fresh flow reported done")
	}

	f.Advance()
	step, ok = f.CurrentStep()
	if !ok || step.Name != models.StepConnectsThisWeek {
		t.Fatalf("expected second step after advance, got %v", step)
	}

	f.Advance()
	f.Advance()
	if _, ok := f.CurrentStep(); ok {
		t.Error("expected no current step after last advance")
	}
	if !f.IsDone() {
		t.Error("expected flow to be done")
	}

	// Advancing past the end stays done.
	f.Advance()
	if !f.IsDone() {
		t.Error("flow left done state after extra advance")
	}
}

func TestFlowRecord(t *testing.T) {
	f := NewFlow("ch1", "u1", "ch1_u1", testSteps())
	at := time.Now()

	f.Record(models.StepWorkloadToday, models.WorkloadValue{Hours: 6}, at)
	f.Advance()

	results := f.Results()
	rec, ok := results[models.StepWorkloadToday]
	if !ok {
		t.Fatal("expected recorded result for workload_today")
	}
	if v, ok := rec.Value.(models.WorkloadValue); !ok || v.Hours != 6 {
		t.Errorf("unexpected recorded value: %#v", rec.Value)
	}
	if !rec.RecordedAt.Equal(at) {
		t.Errorf("RecordedAt = %v, want %v", rec.RecordedAt, at)
	}
}

func TestFlowIncompleteSteps(t *testing.T) {
	f := NewFlow("ch1", "u1", "ch1_u1", testSteps())
	f.Advance()

	incomplete := f.IncompleteSteps()
	want := []string{models.StepConnectsThisWeek, models.StepDayOffNextWeek}
	if len(incomplete) != len(want) {
		t.Fatalf("expected %v, got %v", want, incomplete)
	}
	for i := range want {
		if incomplete[i] != want[i] {
			t.Errorf("incomplete[%d] = %s, want %s", i, incomplete[i], want[i])
		}
	}
}
