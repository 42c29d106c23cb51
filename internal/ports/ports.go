// Package ports defines the narrow interfaces the survey core consumes.
//
// Adapters (Notion, calendar webhook, connects sink, Discord transport, SQL
// ledger) implement these; the core never imports an adapter package.
package ports

import (
	"context"
	"time"

	"github.com/opsline/dailybot/internal/models"
)

// DirectoryPort looks up and mutates the team directory. Find methods return
// (nil, nil) when no record matches.
type DirectoryPort interface {
	FindByChannel(ctx context.Context, channelID string) (*models.DirectoryRecord, error)
	FindByName(ctx context.Context, name string) (*models.DirectoryRecord, error)
	UpdateIDs(ctx context.Context, pageID, discordID, channelID string) error
	ClearIDs(ctx context.Context, pageID string) error
}

// DirectoryLister enumerates registered private channels; the built-in daily
// kick uses it. Separate from DirectoryPort because the router never lists.
type DirectoryLister interface {
	ListRegistered(ctx context.Context) ([]models.DirectoryRecord, error)
}

// WorkloadRow is one member's row of the workload database. Facts is indexed
// Monday=0.
type WorkloadRow struct {
	PageID   string
	Facts    [7]int
	Capacity int
}

// WorkloadPort reads and writes the workload database.
type WorkloadPort interface {
	FindRow(ctx context.Context, name string) (*WorkloadRow, error)
	UpdateField(ctx context.Context, pageID, field string, hours int) error
}

// ProfileStatsPort reads and writes the profile stats database. GetByName
// returns an empty page ID when the member has no stats page.
type ProfileStatsPort interface {
	GetByName(ctx context.Context, name string) (string, error)
	UpdateConnects(ctx context.Context, pageID string, n int) error
}

// CalendarPort creates day-off and vacation events. A non-ok Status in the
// result is a business failure, not a transport error.
type CalendarPort interface {
	CreateDayOff(ctx context.Context, name, date string) (models.CalendarResult, error)
	CreateVacation(ctx context.Context, name, start, end, tz string) (models.CalendarResult, error)
}

// ConnectsSinkPort posts weekly connects counts to the external sink.
type ConnectsSinkPort interface {
	Post(ctx context.Context, name string, connects int) error
}

// LedgerPort is the weekly step-completion ledger, keyed by channel.
type LedgerPort interface {
	// UpsertStep writes or replaces the (channelID, stepName) row, advancing
	// its updated timestamp.
	UpsertStep(ctx context.Context, channelID, stepName string, completed bool) error
	// FetchWeek returns the latest entry per step with updated >= weekStart.
	FetchWeek(ctx context.Context, channelID string, weekStart time.Time) ([]models.StepRecord, error)
	// PendingSteps returns the subset of expected, in input order, whose
	// latest entry this week is absent or incomplete.
	PendingSteps(ctx context.Context, channelID string, weekStart time.Time, expected []string) ([]string, error)
}

// ChatPort is the transport surface the core drives. The core only returns
// intentions; message IDs are weak references kept on the flow for cleanup.
type ChatPort interface {
	SendMessage(ctx context.Context, channelID, body string) (messageID string, err error)
	EditMessage(ctx context.Context, channelID, messageID, body string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// ShowStep renders a survey step with its interactive controls and
	// returns the created message ID.
	ShowStep(ctx context.Context, channelID string, step models.SurveyStep) (messageID string, err error)
}

// Clock abstracts wall time for week arithmetic and timestamps.
type Clock interface {
	Now() time.Time
	NowIn(loc *time.Location) time.Time
}
