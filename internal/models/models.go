// Package models defines the core data structures for dailybot.
//
// It includes the normalized request payload, the canonical router response,
// and the step/command identifiers shared across modules.
package models

import (
	"errors"
	"fmt"
)

// Step and command names are stable wire identifiers. The survey flow and the
// slash-command surface both use them.
const (
	StepWorkloadToday    = "workload_today"
	StepWorkloadNextWeek = "workload_nextweek"
	StepConnectsThisWeek = "connects_thisweek"
	StepDayOffThisWeek   = "day_off_thisweek"
	StepDayOffNextWeek   = "day_off_nextweek"
	StepVacation         = "vacation"

	CommandRegister     = "register"
	CommandUnregister   = "unregister"
	CommandSurvey       = "survey"
	CommandCancel       = "cancel"
	CommandCheckChannel = "check_channel"

	TypeMention   = "mention"
	TypeComponent = "component"
)

// ValueNothing is the sentinel a user submits to explicitly decline a step.
const ValueNothing = "Nothing"

// SurveyDirective tells the transport what to do with the survey UI after a
// dispatched request.
type SurveyDirective string

const (
	SurveyContinue SurveyDirective = "continue"
	SurveyEnd      SurveyDirective = "end"
	SurveyCancel   SurveyDirective = "cancel"
)

// Semantic error categories. Handlers and ports wrap these; the router maps
// them to user messages in one place.
var (
	ErrMissingChannel       = errors.New("missing channel id")
	ErrNotRegistered        = errors.New("channel not registered")
	ErrNameNotFound         = errors.New("name not found in directory")
	ErrChannelTaken         = errors.New("channel registered to another user")
	ErrPublicChannel        = errors.New("channel is public")
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	ErrNotionError          = errors.New("notion write failed")
	ErrLedgerUnavailable    = errors.New("step ledger unavailable")
	ErrAlreadyActive        = errors.New("survey already active for channel")
	ErrUnknownStep          = errors.New("no handler for step")
	ErrInvalidHours         = errors.New("hours must be a non-negative integer")
	ErrInvalidCount         = errors.New("count must be a non-negative integer")
	ErrMissingValue         = errors.New("missing result value")
	ErrHandlerTimeout       = errors.New("handler timed out")
)

// InvalidDateError reports a malformed ISO date in a day-off submission.
// The user message names the offending date.
type InvalidDateError struct {
	Date string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %s", e.Date)
}

// CalendarError carries the calendar service's own message when an event
// creation returns a non-ok status.
type CalendarError struct {
	Message string
}

func (e *CalendarError) Error() string {
	if e.Message == "" {
		return "calendar call failed"
	}
	return "calendar call failed: " + e.Message
}

// StepResult is the step-specific result object of an inbound payload.
// Value is kept loosely typed because interactive controls submit integers,
// strings, and string lists through the same field.
type StepResult struct {
	Text         string   `json:"text,omitempty"`
	Value        any      `json:"value,omitempty"`
	Workload     *int     `json:"workload,omitempty"`
	Connects     *int     `json:"connects,omitempty"`
	DaysSelected []string `json:"daysSelected,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// IntValue extracts an integer from Value, tolerating the float64 that
// encoding/json produces for numbers.
func (r *StepResult) IntValue() (int, bool) {
	if r == nil {
		return 0, false
	}
	switch v := r.Value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// StringList extracts a list of strings from Value. A bare string becomes a
// single-element list.
func (r *StepResult) StringList() []string {
	if r == nil {
		return nil
	}
	switch v := r.Value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// BotRequestPayload is the normalized inbound request the router dispatches.
// ChannelID is required; SessionID follows the "<channelId>_<userId>"
// convention and is synthesized when absent.
type BotRequestPayload struct {
	ChannelID   string      `json:"channelId"`
	UserID      string      `json:"userId,omitempty"`
	SessionID   string      `json:"sessionId,omitempty"`
	Command     string      `json:"command,omitempty"`
	Type        string      `json:"type,omitempty"`
	Status      string      `json:"status,omitempty"`
	Message     string      `json:"message,omitempty"`
	Result      *StepResult `json:"result,omitempty"`
	Author      string      `json:"author,omitempty"`
	ChannelName string      `json:"channelName,omitempty"`
	Timestamp   int64       `json:"timestamp,omitempty"`
	TodoURL     string      `json:"-"`
	// Survey marks a payload dispatched inside an active survey. Set by the
	// router, never by the transport.
	Survey bool `json:"-"`
}

// SessionID builds the conventional session identifier.
func SessionID(channelID, userID string) string {
	return channelID + "_" + userID
}

// RouterResponse is the canonical outbound envelope.
type RouterResponse struct {
	Output   string          `json:"output"`
	Survey   SurveyDirective `json:"survey,omitempty"`
	NextStep string          `json:"next_step,omitempty"`
	URL      string          `json:"url,omitempty"`
	Message  string          `json:"message,omitempty"`
}
