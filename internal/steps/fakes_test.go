package steps

import (
	"context"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/timeutil"
)

// Function-field fakes for the ports. Unset fields mean "not expected to be
// called" and return zero values.

type fakeDirectory struct {
	findByChannel func(ctx context.Context, channelID string) (*models.DirectoryRecord, error)
	findByName    func(ctx context.Context, name string) (*models.DirectoryRecord, error)
	updateIDs     func(ctx context.Context, pageID, discordID, channelID string) error
	clearIDs      func(ctx context.Context, pageID string) error
}

func (f *fakeDirectory) FindByChannel(ctx context.Context, channelID string) (*models.DirectoryRecord, error) {
	if f.findByChannel == nil {
		return nil, nil
	}
	return f.findByChannel(ctx, channelID)
}

func (f *fakeDirectory) FindByName(ctx context.Context, name string) (*models.DirectoryRecord, error) {
	if f.findByName == nil {
		return nil, nil
	}
	return f.findByName(ctx, name)
}

func (f *fakeDirectory) UpdateIDs(ctx context.Context, pageID, discordID, channelID string) error {
	if f.updateIDs == nil {
		return nil
	}
	return f.updateIDs(ctx, pageID, discordID, channelID)
}

func (f *fakeDirectory) ClearIDs(ctx context.Context, pageID string) error {
	if f.clearIDs == nil {
		return nil
	}
	return f.clearIDs(ctx, pageID)
}

type fakeWorkload struct {
	findRow     func(ctx context.Context, name string) (*ports.WorkloadRow, error)
	updateField func(ctx context.Context, pageID, field string, hours int) error
}

func (f *fakeWorkload) FindRow(ctx context.Context, name string) (*ports.WorkloadRow, error) {
	if f.findRow == nil {
		return nil, nil
	}
	return f.findRow(ctx, name)
}

func (f *fakeWorkload) UpdateField(ctx context.Context, pageID, field string, hours int) error {
	if f.updateField == nil {
		return nil
	}
	return f.updateField(ctx, pageID, field, hours)
}

type fakeLedger struct {
	upserts map[string]bool
	err     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{upserts: make(map[string]bool)}
}

func (f *fakeLedger) UpsertStep(ctx context.Context, channelID, stepName string, completed bool) error {
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
	return nil, f.err
}

type fakeCalendar struct {
	dayOffs   []string
	vacations [][2]string
	result    models.CalendarResult
	err       error
}

func okCalendar() *fakeCalendar {
	return &fakeCalendar{result: models.CalendarResult{Status: models.CalendarStatusOK, EventID: "ev1"}}
}

func (f *fakeCalendar) CreateDayOff(ctx context.Context, name, date string) (models.CalendarResult, error) {
	if f.err != nil {
		return models.CalendarResult{}, f.err
	}
	f.dayOffs = append(f.dayOffs, date)
	return f.result, nil
}

func (f *fakeCalendar) CreateVacation(ctx context.Context, name, start, end, tz string) (models.CalendarResult, error) {
	if f.err != nil {
		return models.CalendarResult{}, f.err
	}
	f.vacations = append(f.vacations, [2]string{start, end})
	return f.result, nil
}

type fakeSink struct {
	posts []int
	err   error
}

func (f *fakeSink) Post(ctx context.Context, name string, connects int) error {
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, connects)
	return nil
}

type fakeProfile struct {
	pageID   string
	updates  []int
	getErr   error
	writeErr error
}

func (f *fakeProfile) GetByName(ctx context.Context, name string) (string, error) {
	return f.pageID, f.getErr
}

func (f *fakeProfile) UpdateConnects(ctx context.Context, pageID string, n int) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updates = append(f.updates, n)
	return nil
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func (c fixedClock) NowIn(loc *time.Location) time.Time { return c.at.In(loc) }

func wednesdayClock() fixedClock {
	return fixedClock{at: time.Date(2025, 6, 4, 10, 0, 0, 0, timeutil.Kyiv)}
}

func intPtr(n int) *int { return &n }
