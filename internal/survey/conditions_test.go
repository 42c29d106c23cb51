package survey

import (
	"testing"

	"github.com/opsline/dailybot/internal/models"
)

func compiledDefaults(t *testing.T) []StepDef {
	t.Helper()
	defs, err := CompileSteps(DefaultSteps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return defs
}

func TestExpandStepsDefault(t *testing.T) {
	steps, err := ExpandSteps(compiledDefaults(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		models.StepWorkloadToday,
		models.StepWorkloadNextWeek,
		models.StepConnectsThisWeek,
		models.StepDayOffNextWeek,
	}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i := range want {
		if steps[i].Name != want[i] {
			t.Errorf("steps[%d] = %s, want %s", i, steps[i].Name, want[i])
		}
	}
}

func TestExpandStepsWithVacation(t *testing.T) {
	steps, err := ExpandSteps(compiledDefaults(t), []string{models.StepVacation})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := steps[len(steps)-1]
	if last.Name != models.StepVacation {
		t.Errorf("expected vacation as last step, got %s", last.Name)
	}
}

func TestCompileStepsRejectsBadExpression(t *testing.T) {
	defs := []StepDef{{Name: "broken", When: "requested ++"}}
	if _, err := CompileSteps(defs); err == nil {
		t.Error("expected compile error for malformed condition")
	}
}

func TestExpandStepsRejectsNonBoolean(t *testing.T) {
	defs, err := CompileSteps([]StepDef{{Name: "broken", When: "len(requested)"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ExpandSteps(defs, nil); err == nil {
		t.Error("expected error for non-boolean condition result")
	}
}
