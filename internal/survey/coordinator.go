package survey

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/timeutil"
)

// DefaultUITimeout is how long a survey view waits for a user action before
// the incomplete path runs.
const DefaultUITimeout = 15 * time.Minute

// Coordinator consumes "start daily survey" kicks: it checks the directory,
// computes the remaining weekly steps from the ledger, creates a flow, and
// drives the first step into the UI.
type Coordinator struct {
	directory ports.DirectoryPort
	ledger    ports.LedgerPort
	registry  *Registry
	chat      ports.ChatPort
	clock     ports.Clock
	timer     *Timer
	steps     []StepDef
	timeout   time.Duration
}

// NewCoordinator wires a coordinator. The step definitions must already be
// compiled; timer may be nil to disable UI timeouts.
func NewCoordinator(directory ports.DirectoryPort, ledger ports.LedgerPort, registry *Registry, chat ports.ChatPort, clock ports.Clock, timer *Timer, steps []StepDef, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultUITimeout
	}
	return &Coordinator{
		directory: directory,
		ledger:    ledger,
		registry:  registry,
		chat:      chat,
		clock:     clock,
		timer:     timer,
		steps:     steps,
		timeout:   timeout,
	}
}

// StartSurvey acquires the channel's serialization region and runs the start
// sequence. The HTTP and cron kick paths enter here; a flow is never visible
// to a concurrent dispatch in a half-initialized state.
func (c *Coordinator) StartSurvey(ctx context.Context, userID, channelID, sessionID string, requested []string) error {
	unlock := c.registry.LockChannel(channelID)
	defer unlock()
	return c.startSurvey(ctx, userID, channelID, sessionID, requested)
}

// StartSurveyLocked runs the start sequence for a caller already inside the
// channel's serialization region, such as the router during a dispatch.
func (c *Coordinator) StartSurveyLocked(ctx context.Context, userID, channelID, sessionID string, requested []string) error {
	return c.startSurvey(ctx, userID, channelID, sessionID, requested)
}

// startSurvey runs the session start sequence for one channel. requested
// names extra conditional steps (e.g. vacation) to include this session.
// The caller holds the channel lock.
func (c *Coordinator) startSurvey(ctx context.Context, userID, channelID, sessionID string, requested []string) error {
	slog.Debug("Coordinator.StartSurvey: kick received", "channelID", channelID, "userID", userID)

	rec, err := c.directory.FindByChannel(ctx, channelID)
	if err != nil {
		slog.Error("Coordinator.StartSurvey: directory lookup failed", "error", err, "channelID", channelID)
		c.notify(ctx, channelID, models.MsgTryLater)
		return fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}
	if rec == nil {
		slog.Info("Coordinator.StartSurvey: channel not registered", "channelID", channelID)
		c.notify(ctx, channelID, models.MsgNotRegistered)
		return models.ErrNotRegistered
	}
	if rec.IsPublic {
		slog.Debug("Coordinator.StartSurvey: public channel, skipping", "channelID", channelID)
		return nil
	}

	expected, err := ExpandSteps(c.steps, requested)
	if err != nil {
		slog.Error("Coordinator.StartSurvey: step expansion failed", "error", err, "channelID", channelID)
		c.notify(ctx, channelID, models.MsgTryLater)
		return err
	}
	names := make([]string, len(expected))
	for i, step := range expected {
		names[i] = step.Name
	}

	weekStart := timeutil.WeekStart(c.clock.NowIn(timeutil.Kyiv))
	pending, err := c.ledger.PendingSteps(ctx, channelID, weekStart, names)
	if err != nil {
		// A dead ledger is a fatal start error; the user is told to retry.
		slog.Error("Coordinator.StartSurvey: ledger unavailable", "error", err, "channelID", channelID)
		c.notify(ctx, channelID, models.MsgTryLater)
		return err
	}

	if len(pending) == 0 {
		slog.Info("Coordinator.StartSurvey: all steps done this week", "channelID", channelID)
		c.notify(ctx, channelID, models.MsgAllStepsDone)
		return nil
	}

	if sessionID == "" {
		sessionID = models.SessionID(channelID, userID)
	}

	steps := make([]models.SurveyStep, 0, len(pending))
	for _, name := range pending {
		for _, step := range expected {
			if step.Name == name {
				steps = append(steps, step)
				break
			}
		}
	}

	flow, err := c.registry.Create(channelID, userID, sessionID, steps)
	if err != nil {
		slog.Warn("Coordinator.StartSurvey: create failed", "error", err, "channelID", channelID)
		return err
	}
	flow.TodoURL = rec.TodoURL

	startMsgID, err := c.chat.SendMessage(ctx, channelID, models.MsgSurveyGreeting)
	if err != nil {
		slog.Error("Coordinator.StartSurvey: greeting failed", "error", err, "channelID", channelID)
		c.registry.End(ctx, channelID)
		return err
	}
	flow.UIRefs.StartMsgID = startMsgID

	first, _ := flow.CurrentStep()
	buttonsMsgID, err := c.chat.ShowStep(ctx, channelID, first)
	if err != nil {
		slog.Error("Coordinator.StartSurvey: first step render failed", "error", err, "channelID", channelID, "step", first.Name)
		c.registry.End(ctx, channelID)
		return err
	}
	flow.UIRefs.ButtonsMsgID = buttonsMsgID

	if c.timer != nil {
		timerID, err := c.timer.ScheduleAfter(c.timeout, func() {
			if err := c.HandleSurveyIncomplete(context.Background(), channelID); err != nil {
				slog.Error("Coordinator: survey incomplete handling failed", "error", err, "channelID", channelID)
			}
		})
		if err == nil {
			flow.timerID = timerID
		}
	}

	slog.Info("Coordinator.StartSurvey: survey started", "channelID", channelID, "sessionID", sessionID, "pending", pending)
	return nil
}

// HandleSurveyIncomplete records every remaining step as incomplete and ends
// the flow. Invoked on UI timeout.
func (c *Coordinator) HandleSurveyIncomplete(ctx context.Context, channelID string) error {
	unlock := c.registry.LockChannel(channelID)
	defer unlock()

	flow := c.registry.GetByChannel(channelID)
	if flow == nil {
		slog.Debug("Coordinator.HandleSurveyIncomplete: no active survey", "channelID", channelID)
		return nil
	}

	for _, stepName := range flow.IncompleteSteps() {
		if err := c.ledger.UpsertStep(ctx, channelID, stepName, false); err != nil {
			slog.Error("Coordinator.HandleSurveyIncomplete: upsert failed", "error", err, "channelID", channelID, "step", stepName)
			return err
		}
	}

	c.notify(ctx, channelID, models.MsgSurveyTimedOut)
	c.registry.End(ctx, channelID)
	slog.Info("Coordinator.HandleSurveyIncomplete: survey closed", "channelID", channelID)
	return nil
}

func (c *Coordinator) notify(ctx context.Context, channelID, body string) {
	if c.chat == nil {
		return
	}
	if _, err := c.chat.SendMessage(ctx, channelID, body); err != nil {
		slog.Warn("Coordinator: notify failed", "error", err, "channelID", channelID)
	}
}
