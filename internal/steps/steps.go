// Package steps implements the side-effect handlers behind survey steps and
// slash commands: register, unregister, workload, connects, day-off, and
// vacation.
//
// Handlers are pure input/output against the ports: they perform external
// writes and return a user-visible message plus the typed value the flow
// records. A handler that returns an error has made no ledger write for its
// step (external writes already performed are not rolled back). Handlers
// never mutate survey state; that is the router's job, after success.
package steps

import (
	"context"

	"github.com/opsline/dailybot/internal/models"
)

// Result is a successful handler outcome.
type Result struct {
	// Message is the user-visible confirmation.
	Message string
	// Value is the typed answer the flow records. Nil for command-only
	// handlers (register, unregister).
	Value models.StepValue
}

// Handler processes one normalized payload.
type Handler interface {
	Handle(ctx context.Context, p models.BotRequestPayload) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, p models.BotRequestPayload) (Result, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, p models.BotRequestPayload) (Result, error) {
	return f(ctx, p)
}
