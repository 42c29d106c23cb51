package survey

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/timeutil"
)

// fakeChat records transport calls for assertions. When showGate is set,
// ShowStep signals showEntered and then blocks until the gate closes, holding
// the start sequence open mid-flight.
type fakeChat struct {
	mu          sync.Mutex
	sent        []string
	shown       []string
	deleted     []string
	sendErr     error
	showErr     error
	nextID      int
	showGate    chan struct{}
	showEntered chan struct{}
}

func (f *fakeChat) SendMessage(ctx context.Context, channelID, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, body)
	f.nextID++
	return "msg_" + strconv.Itoa(f.nextID), nil
}

func (f *fakeChat) EditMessage(ctx context.Context, channelID, messageID, body string) error {
	return nil
}

func (f *fakeChat) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeChat) ShowStep(ctx context.Context, channelID string, step models.SurveyStep) (string, error) {
	if f.showEntered != nil {
		f.showEntered <- struct{}{}
	}
	if f.showGate != nil {
		<-f.showGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.showErr != nil {
		return "", f.showErr
	}
	f.shown = append(f.shown, step.Name)
	f.nextID++
	return "msg_" + strconv.Itoa(f.nextID), nil
}

func (f *fakeChat) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// fakeDirectory serves a single record.
type fakeDirectory struct {
	rec *models.DirectoryRecord
	err error
}

func (f *fakeDirectory) FindByChannel(ctx context.Context, channelID string) (*models.DirectoryRecord, error) {
	return f.rec, f.err
}

func (f *fakeDirectory) FindByName(ctx context.Context, name string) (*models.DirectoryRecord, error) {
	return f.rec, f.err
}

func (f *fakeDirectory) UpdateIDs(ctx context.Context, pageID, discordID, channelID string) error {
	return nil
}

func (f *fakeDirectory) ClearIDs(ctx context.Context, pageID string) error {
	return nil
}

// fakeLedger is an in-memory ledger with optional forced failure.
type fakeLedger struct {
	mu      sync.Mutex
	upserts map[string]bool // stepName -> completed
	err     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{upserts: make(map[string]bool)}
}

func (f *fakeLedger) UpsertStep(ctx context.Context, channelID, stepName string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts[stepName] = completed
	return nil
}

func (f *fakeLedger) FetchWeek(ctx context.Context, channelID string, weekStart time.Time) ([]models.StepRecord, error) {
	return nil, f.err
}

func (f *fakeLedger) PendingSteps(ctx context.Context, channelID string, weekStart time.Time, expected []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var pending []string
	for _, name := range expected {
		if done, ok := f.upserts[name]; ok && done {
			continue
		}
		pending = append(pending, name)
	}
	return pending, nil
}

// fixedClock returns a constant instant.
type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func (c fixedClock) NowIn(loc *time.Location) time.Time { return c.at.In(loc) }

func testClock() fixedClock {
	// Wednesday mid-week in Kyiv.
	return fixedClock{at: time.Date(2025, 6, 4, 10, 0, 0, 0, timeutil.Kyiv)}
}
