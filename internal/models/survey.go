// Package models defines survey state structures for dailybot flows.
package models

import "time"

// SurveyStep is one named question in a survey. Identity is Name.
type SurveyStep struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// StepValue is the typed answer recorded for a completed step.
type StepValue interface {
	stepValue()
}

// WorkloadValue is an hours answer for the workload steps.
type WorkloadValue struct {
	Hours int
}

// ConnectsValue is a connects count for the connects step.
type ConnectsValue struct {
	N int
}

// DayOffValue is a list of ISO dates, or an explicit decline.
type DayOffValue struct {
	Dates   []string
	Nothing bool
}

// VacationValue is a start/end datetime range.
type VacationValue struct {
	Start string
	End   string
}

// TextValue is a free-form answer (register name and similar).
type TextValue struct {
	Text string
}

func (WorkloadValue) stepValue() {}
func (ConnectsValue) stepValue() {}
func (DayOffValue) stepValue()   {}
func (VacationValue) stepValue() {}
func (TextValue) stepValue()     {}

// SurveyResult records one answered step.
type SurveyResult struct {
	StepName   string    `json:"step_name"`
	Value      StepValue `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StepRecord is one row of the weekly step-completion ledger.
type StepRecord struct {
	StepName  string    `db:"step_name" json:"step_name"`
	Completed bool      `db:"completed" json:"completed"`
	UpdatedAt time.Time `db:"updated" json:"updated"`
}

// DirectoryRecord associates a channel with a team member. Read-only from the
// core's viewpoint.
type DirectoryRecord struct {
	PageID    string `json:"page_id"`
	Name      string `json:"name"`
	DiscordID string `json:"discord_id"`
	ChannelID string `json:"channel_id"`
	TodoURL   string `json:"todo_url"`
	IsPublic  bool   `json:"is_public"`
}

// CalendarResult is the calendar service's response envelope.
type CalendarResult struct {
	Status  string `json:"status"`
	EventID string `json:"event_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// CalendarStatusOK is the status value of a successful calendar call.
const CalendarStatusOK = "ok"
