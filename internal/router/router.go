// Package router normalizes inbound payloads, resolves the acting identity,
// selects the correct handler, and interprets its outcome as a survey state
// transition and a canonical response.
package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/steps"
	"github.com/opsline/dailybot/internal/survey"
)

// DefaultHandlerTimeout bounds one handler execution. Exceeding it is
// classified like any other failure.
const DefaultHandlerTimeout = 30 * time.Second

// Opts holds router configuration.
type Opts struct {
	HandlerTimeout time.Duration
}

// Option configures the router.
type Option func(*Opts)

// WithHandlerTimeout overrides the per-handler execution bound.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Opts) { o.HandlerTimeout = d }
}

// Router dispatches normalized payloads. All dispatching for one channel runs
// inside that channel's serialization region, so state transitions follow the
// order in which events are observed.
type Router struct {
	handlers       map[string]steps.Handler
	registry       *survey.Registry
	coordinator    *survey.Coordinator
	directory      ports.DirectoryPort
	clock          ports.Clock
	handlerTimeout time.Duration
}

// New creates a router. Handlers are attached with Register.
func New(registry *survey.Registry, coordinator *survey.Coordinator, directory ports.DirectoryPort, clock ports.Clock, opts ...Option) *Router {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = DefaultHandlerTimeout
	}
	return &Router{
		handlers:       make(map[string]steps.Handler),
		registry:       registry,
		coordinator:    coordinator,
		directory:      directory,
		clock:          clock,
		handlerTimeout: cfg.HandlerTimeout,
	}
}

// Register associates a step or command name with a handler.
func (r *Router) Register(name string, h steps.Handler) {
	r.handlers[name] = h
	slog.Debug("Router.Register: handler registered", "name", name)
}

// Dispatch runs the full pipeline for one payload and returns the canonical
// response. It never returns an error; failures become user messages.
func (r *Router) Dispatch(ctx context.Context, p models.BotRequestPayload) models.RouterResponse {
	if p.ChannelID == "" {
		slog.Warn("Router.Dispatch: missing channel id", "category", "validation", "command", p.Command)
		return models.RouterResponse{Output: models.MsgTryLater}
	}

	unlock := r.registry.LockChannel(p.ChannelID)
	defer unlock()

	rec, err := r.directory.FindByChannel(ctx, p.ChannelID)
	if err != nil {
		slog.Error("Router.Dispatch: identity resolution failed", "category", "directory", "error", err, "channelID", p.ChannelID)
		return models.RouterResponse{Output: models.MsgTryLater}
	}
	if rec == nil && p.Command != models.CommandRegister {
		slog.Info("Router.Dispatch: channel not registered", "channelID", p.ChannelID, "command", p.Command)
		return models.RouterResponse{Output: models.MsgNotRegistered}
	}
	if rec != nil {
		// Resolved fields override caller-supplied ones; the caller's user id
		// survives for the register ownership check.
		p.Author = rec.Name
		p.TodoURL = rec.TodoURL
		if p.UserID == "" {
			p.UserID = rec.DiscordID
		}
	}

	if p.Command == models.CommandRegister && rec != nil {
		if rec.IsPublic {
			slog.Info("Router.Dispatch: register rejected, public channel", "channelID", p.ChannelID)
			return models.RouterResponse{Output: models.MsgPublicChannel}
		}
		if rec.DiscordID != "" && rec.DiscordID != p.UserID {
			slog.Info("Router.Dispatch: register rejected, channel taken", "channelID", p.ChannelID)
			return models.RouterResponse{Output: models.MsgChannelTaken}
		}
	}

	// An active survey wins over mention handling.
	flow := r.registry.GetByChannel(p.ChannelID)
	switch {
	case p.Command == models.CommandSurvey || flow != nil:
		return r.dispatchSurvey(ctx, p, flow)
	case p.Type == models.TypeComponent:
		// A control from a survey that already finished. Re-running the
		// handler would repeat its side effects.
		slog.Info("Router.Dispatch: stale component submission", "channelID", p.ChannelID, "command", p.Command)
		return models.RouterResponse{Output: models.MsgNoHandler(p.Command), Survey: models.SurveyCancel}
	case p.Type == models.TypeMention:
		return models.RouterResponse{Output: models.MsgMention}
	default:
		return r.dispatchCommand(ctx, p)
	}
}

// dispatchSurvey handles survey mode: starting, cancelling, and step
// submissions against the active flow.
func (r *Router) dispatchSurvey(ctx context.Context, p models.BotRequestPayload, flow *survey.Flow) models.RouterResponse {
	if p.Command == models.CommandSurvey {
		if flow != nil {
			step, ok := flow.CurrentStep()
			if !ok {
				// Defensive: a done flow should already have been removed.
				r.registry.End(ctx, p.ChannelID)
				return models.RouterResponse{Output: models.MsgAllStepsDone, Survey: models.SurveyEnd}
			}
			return models.RouterResponse{Output: step.Description, Survey: models.SurveyContinue, NextStep: step.Name}
		}
		if err := r.coordinator.StartSurveyLocked(ctx, p.UserID, p.ChannelID, p.SessionID, nil); err != nil {
			slog.Error("Router.dispatchSurvey: start failed", "category", category(err), "error", err, "channelID", p.ChannelID)
			return models.RouterResponse{Output: userMessage(err)}
		}
		return models.RouterResponse{Message: "survey started"}
	}

	if p.Command == models.CommandCancel {
		r.registry.End(ctx, p.ChannelID)
		return models.RouterResponse{Output: models.MsgSurveyCancelled, Survey: models.SurveyCancel}
	}

	stepName := p.Command
	current, hasCurrent := flow.CurrentStep()
	if stepName == "" {
		if !hasCurrent {
			return models.RouterResponse{Output: models.MsgNoHandler(""), Survey: models.SurveyCancel}
		}
		stepName = current.Name
	}

	handler, exists := r.handlers[stepName]
	if !exists {
		// The flow is left alone; the transport typically ends it next tick.
		slog.Warn("Router.dispatchSurvey: no handler", "category", "unknown_step", "channelID", p.ChannelID, "step", stepName)
		return models.RouterResponse{Output: models.MsgNoHandler(stepName), Survey: models.SurveyCancel}
	}

	p.Survey = true
	result, err := r.invoke(ctx, handler, p)
	if err != nil {
		slog.Error("Router.dispatchSurvey: handler failed", "category", category(err), "error", err, "channelID", p.ChannelID, "step", stepName)
		if isValidation(err) {
			// Malformed input keeps the flow at the same step.
			resp := models.RouterResponse{Output: userMessage(err), Survey: models.SurveyContinue}
			if hasCurrent {
				resp.NextStep = current.Name
			}
			return resp
		}
		r.registry.End(ctx, p.ChannelID)
		return models.RouterResponse{Output: userMessage(err), Survey: models.SurveyCancel}
	}

	// State mutation happens only after handler success, exactly once.
	flow.Record(stepName, result.Value, r.clock.Now())
	flow.Advance()

	if flow.IsDone() {
		resp := models.RouterResponse{Output: result.Message, Survey: models.SurveyEnd, URL: flow.TodoURL}
		r.registry.End(ctx, p.ChannelID)
		slog.Info("Router.dispatchSurvey: survey completed", "channelID", p.ChannelID, "sessionID", flow.SessionID)
		return resp
	}

	next, _ := flow.CurrentStep()
	slog.Info("Router.dispatchSurvey: step completed", "channelID", p.ChannelID, "step", stepName, "next", next.Name)
	return models.RouterResponse{Output: result.Message, Survey: models.SurveyContinue, NextStep: next.Name}
}

// dispatchCommand handles command mode.
func (r *Router) dispatchCommand(ctx context.Context, p models.BotRequestPayload) models.RouterResponse {
	handler, exists := r.handlers[p.Command]
	if !exists {
		slog.Debug("Router.dispatchCommand: unknown command", "channelID", p.ChannelID, "command", p.Command)
		return models.RouterResponse{Output: models.MsgUnknownCommand}
	}

	result, err := r.invoke(ctx, handler, p)
	if err != nil {
		slog.Error("Router.dispatchCommand: handler failed", "category", category(err), "error", err, "channelID", p.ChannelID, "command", p.Command)
		return models.RouterResponse{Output: userMessage(err)}
	}
	return models.RouterResponse{Output: result.Message}
}

// invoke runs a handler under the execution bound.
func (r *Router) invoke(ctx context.Context, h steps.Handler, p models.BotRequestPayload) (steps.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.handlerTimeout)
	defer cancel()

	type outcome struct {
		result steps.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := h.Handle(ctx, p)
		done <- outcome{result, err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return steps.Result{}, models.ErrHandlerTimeout
	}
}
