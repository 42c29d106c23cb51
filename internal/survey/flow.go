// Package survey implements the per-channel survey orchestration core: flow
// state, the active-flow registry, step conditions, and the session start
// coordinator.
package survey

import (
	"time"

	"github.com/opsline/dailybot/internal/models"
)

// UIRefs holds weak references to the chat artifacts of an active survey.
// The flow never owns transport state; the IDs exist only for cleanup.
type UIRefs struct {
	CommandMsgID string
	ButtonsMsgID string
	StartMsgID   string
}

// Flow is the in-memory state of one active survey. The steps list is never
// mutated after construction; only the index and results change. A Flow is
// mutated only under its channel's serialization region.
type Flow struct {
	ChannelID string
	UserID    string
	SessionID string
	TodoURL   string
	UIRefs    UIRefs

	steps   []models.SurveyStep
	current int
	results map[string]models.SurveyResult

	timerID string
}

// NewFlow creates a flow positioned at the first step.
func NewFlow(channelID, userID, sessionID string, steps []models.SurveyStep) *Flow {
	return &Flow{
		ChannelID: channelID,
		UserID:    userID,
		SessionID: sessionID,
		steps:     steps,
		results:   make(map[string]models.SurveyResult, len(steps)),
	}
}

// CurrentStep returns the step at the current index, or false when done.
func (f *Flow) CurrentStep() (models.SurveyStep, bool) {
	if f.current >= len(f.steps) {
		return models.SurveyStep{}, false
	}
	return f.steps[f.current], true
}

// Advance moves to the next step. The router advances at most once per
// handler success; idempotence is the caller's responsibility.
func (f *Flow) Advance() {
	if f.current < len(f.steps) {
		f.current++
	}
}

// Record inserts a result for a step. It does not advance.
func (f *Flow) Record(stepName string, value models.StepValue, at time.Time) {
	f.results[stepName] = models.SurveyResult{
		StepName:   stepName,
		Value:      value,
		RecordedAt: at,
	}
}

// IncompleteSteps returns the names at indices >= the current index.
func (f *Flow) IncompleteSteps() []string {
	names := make([]string, 0, len(f.steps)-f.current)
	for _, step := range f.steps[f.current:] {
		names = append(names, step.Name)
	}
	return names
}

// IsDone reports whether every step has been completed.
func (f *Flow) IsDone() bool {
	return f.current == len(f.steps)
}

// Steps returns the ordered step list.
func (f *Flow) Steps() []models.SurveyStep {
	return f.steps
}

// Results returns the recorded results keyed by step name.
func (f *Flow) Results() map[string]models.SurveyResult {
	return f.results
}
