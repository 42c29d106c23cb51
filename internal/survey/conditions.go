package survey

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/opsline/dailybot/internal/models"
)

// StepDef declares one step of the expected weekly flow. When is an optional
// boolean expression over {requested: []string}; a step with a When joins a
// flow only when the expression evaluates true.
type StepDef struct {
	Name        string
	Description string
	When        string

	program *vm.Program
}

// DefaultSteps is the documented weekly flow. Vacation participates only when
// externally requested.
func DefaultSteps() []StepDef {
	return []StepDef{
		{Name: models.StepWorkloadToday, Description: "Скільки годин плануєш сьогодні?"},
		{Name: models.StepWorkloadNextWeek, Description: "Скільки годин плануєш на наступний тиждень?"},
		{Name: models.StepConnectsThisWeek, Description: "Скільки коннектів витрачено цього тижня?"},
		{Name: models.StepDayOffNextWeek, Description: "Плануєш вихідні наступного тижня?"},
		{Name: models.StepVacation, Description: "Вкажи дати відпустки.", When: "'vacation' in requested"},
	}
}

// CompileSteps compiles every When expression. Returns the first compile
// error; call once at startup.
func CompileSteps(defs []StepDef) ([]StepDef, error) {
	env := map[string]any{"requested": []string{}}
	for i := range defs {
		if defs[i].When == "" {
			continue
		}
		program, err := expr.Compile(defs[i].When, expr.Env(env))
		if err != nil {
			return nil, fmt.Errorf("compile condition for step %s: %w", defs[i].Name, err)
		}
		defs[i].program = program
	}
	return defs, nil
}

// ExpandSteps evaluates conditions against the requested step names and
// returns the steps that participate, in definition order.
func ExpandSteps(defs []StepDef, requested []string) ([]models.SurveyStep, error) {
	if requested == nil {
		requested = []string{}
	}
	env := map[string]any{"requested": requested}

	steps := make([]models.SurveyStep, 0, len(defs))
	for _, def := range defs {
		if def.program != nil {
			output, err := expr.Run(def.program, env)
			if err != nil {
				return nil, fmt.Errorf("evaluate condition for step %s: %w", def.Name, err)
			}
			include, ok := output.(bool)
			if !ok {
				return nil, errors.New("expression did not return a boolean")
			}
			if !include {
				slog.Debug("ExpandSteps: condition excluded step", "step", def.Name)
				continue
			}
		}
		steps = append(steps, models.SurveyStep{Name: def.Name, Description: def.Description})
	}
	return steps, nil
}
