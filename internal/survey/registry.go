package survey

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
)

// Registry indexes active flows by channel and by session and enforces the
// single-active-survey-per-channel invariant. It exclusively owns Flow
// instances.
//
// The internal mutex guards only the maps and is never held across a port
// call; per-channel serialization is provided by LockChannel.
type Registry struct {
	mu        sync.Mutex
	byChannel map[string]*Flow
	bySession map[string]*Flow
	channelMu map[string]*sync.Mutex

	chat  ports.ChatPort
	timer *Timer
}

// NewRegistry creates an empty registry. The chat port is used for UI cleanup
// on End; timer may be nil when timeouts are disabled.
func NewRegistry(chat ports.ChatPort, timer *Timer) *Registry {
	slog.Debug("Creating survey Registry")
	return &Registry{
		byChannel: make(map[string]*Flow),
		bySession: make(map[string]*Flow),
		channelMu: make(map[string]*sync.Mutex),
		chat:      chat,
		timer:     timer,
	}
}

// LockChannel acquires the channel's serialization region and returns the
// unlock function. All dispatching for a channel runs inside this region, so
// racing submissions are processed one at a time.
func (r *Registry) LockChannel(channelID string) func() {
	r.mu.Lock()
	mu, ok := r.channelMu[channelID]
	if !ok {
		mu = &sync.Mutex{}
		r.channelMu[channelID] = mu
	}
	r.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Create registers a new flow for the channel. Fails with ErrAlreadyActive
// when the channel already has one.
func (r *Registry) Create(channelID, userID, sessionID string, steps []models.SurveyStep) (*Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byChannel[channelID]; exists {
		slog.Warn("Registry.Create: survey already active", "channelID", channelID)
		return nil, fmt.Errorf("%w: channel %s", models.ErrAlreadyActive, channelID)
	}

	flow := NewFlow(channelID, userID, sessionID, steps)
	r.byChannel[channelID] = flow
	r.bySession[sessionID] = flow
	slog.Info("Registry.Create: survey created", "channelID", channelID, "sessionID", sessionID, "steps", len(steps))
	return flow, nil
}

// GetByChannel returns the active flow for a channel, or nil.
func (r *Registry) GetByChannel(channelID string) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byChannel[channelID]
}

// GetBySession returns the active flow for a session, or nil.
func (r *Registry) GetBySession(sessionID string) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySession[sessionID]
}

// ActiveCount returns the number of active flows.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byChannel)
}

// End removes the channel's flow after requesting UI cleanup. Safe to call
// when no flow exists. After End returns, GetByChannel observes nil.
func (r *Registry) End(ctx context.Context, channelID string) {
	r.mu.Lock()
	flow, exists := r.byChannel[channelID]
	r.mu.Unlock()
	if !exists {
		slog.Debug("Registry.End: no active survey", "channelID", channelID)
		return
	}

	if r.timer != nil && flow.timerID != "" {
		if err := r.timer.Cancel(flow.timerID); err != nil {
			slog.Debug("Registry.End: timeout timer already fired", "channelID", channelID, "timerID", flow.timerID)
		}
	}

	// Cleanup before removal so the flow's UI refs are still reachable.
	r.cleanupUI(ctx, flow)

	r.mu.Lock()
	delete(r.byChannel, channelID)
	delete(r.bySession, flow.SessionID)
	r.mu.Unlock()
	slog.Info("Registry.End: survey ended", "channelID", channelID, "sessionID", flow.SessionID)
}

func (r *Registry) cleanupUI(ctx context.Context, flow *Flow) {
	if r.chat == nil {
		return
	}
	for _, msgID := range []string{flow.UIRefs.ButtonsMsgID, flow.UIRefs.StartMsgID, flow.UIRefs.CommandMsgID} {
		if msgID == "" {
			continue
		}
		if err := r.chat.DeleteMessage(ctx, flow.ChannelID, msgID); err != nil {
			slog.Warn("Registry.cleanupUI: delete failed", "error", err, "channelID", flow.ChannelID, "messageID", msgID)
		}
	}
}
