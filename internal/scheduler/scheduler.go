// Package scheduler provides cron-based scheduling for dailybot.
//
// Its main job is the daily survey kick over every registered channel.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/survey"
	"github.com/opsline/dailybot/internal/timeutil"
)

// KickTimeout bounds one full daily kick run.
const KickTimeout = 5 * time.Minute

// Scheduler provides cron-based job scheduling in Kyiv time.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler. Expressions use the
// standard 5-field format and run in the Kyiv zone.
func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithLocation(timeutil.Kyiv), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task using the provided cron expression.
func (s *Scheduler) AddJob(expr string, task func()) error {
	_, err := s.cron.AddFunc(expr, task)
	return err
}

// Stop stops the cron scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// DailyKick returns the job that starts a survey in every registered private
// channel. Per-channel failures are logged and skipped; one broken channel
// never blocks the rest.
func DailyKick(lister ports.DirectoryLister, coordinator *survey.Coordinator) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), KickTimeout)
		defer cancel()

		records, err := lister.ListRegistered(ctx)
		if err != nil {
			slog.Error("DailyKick: directory listing failed", "error", err)
			return
		}
		slog.Info("DailyKick: starting surveys", "channels", len(records))

		for _, rec := range records {
			if err := coordinator.StartSurvey(ctx, rec.DiscordID, rec.ChannelID, "", nil); err != nil {
				slog.Warn("DailyKick: kick failed for channel", "error", err, "channelID", rec.ChannelID)
			}
		}
	}
}
