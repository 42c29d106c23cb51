// Package survey provides the timeout timer for survey UI views.
package survey

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opsline/dailybot/internal/util"
)

// timerEntry tracks information about a scheduled timer.
type timerEntry struct {
	timer       *time.Timer
	scheduledAt time.Time
	expiresAt   time.Time
}

// Timer schedules one-shot callbacks using the standard time package. The
// coordinator uses it to fire the survey-incomplete path after the UI
// timeout window.
type Timer struct {
	timers map[string]*timerEntry
	mu     sync.Mutex
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	slog.Debug("Creating survey Timer")
	return &Timer{timers: make(map[string]*timerEntry)}
}

// ScheduleAfter schedules fn to run after delay and returns the timer ID.
func (t *Timer) ScheduleAfter(delay time.Duration, fn func()) (string, error) {
	id := util.GenerateRandomID("timer_", 16)

	now := time.Now()
	timer := time.AfterFunc(delay, func() {
		slog.Debug("Timer executing scheduled function", "id", id)
		fn()
		t.mu.Lock()
		delete(t.timers, id)
		t.mu.Unlock()
	})

	t.mu.Lock()
	t.timers[id] = &timerEntry{timer: timer, scheduledAt: now, expiresAt: now.Add(delay)}
	t.mu.Unlock()

	slog.Debug("Timer ScheduleAfter succeeded", "id", id, "delay", delay)
	return id, nil
}

// Cancel stops a scheduled timer by ID. Returns an error when the timer does
// not exist (typically because it already fired).
func (t *Timer) Cancel(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.timers[id]
	if !exists {
		return fmt.Errorf("timer %s not found", id)
	}
	entry.timer.Stop()
	delete(t.timers, id)
	slog.Debug("Timer cancelled", "id", id)
	return nil
}

// ActiveCount returns the number of pending timers.
func (t *Timer) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
