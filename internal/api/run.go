package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opsline/dailybot/internal/calendar"
	"github.com/opsline/dailybot/internal/connects"
	"github.com/opsline/dailybot/internal/discord"
	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/notion"
	"github.com/opsline/dailybot/internal/ports"
	"github.com/opsline/dailybot/internal/router"
	"github.com/opsline/dailybot/internal/scheduler"
	"github.com/opsline/dailybot/internal/steps"
	"github.com/opsline/dailybot/internal/store"
	"github.com/opsline/dailybot/internal/survey"
	"github.com/opsline/dailybot/internal/timeutil"
)

// Run wires every module together and serves until SIGINT or SIGTERM.
func Run(storeOpts []store.Option, notionOpts []notion.Option, discordOpts []discord.Option, calendarOpts []calendar.Option, connectsOpts []connects.Option, apiOpts []Option) error {
	ledger, err := buildLedger(storeOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize ledger store: %w", err)
	}
	defer func() {
		if closer, ok := ledger.(io.Closer); ok {
			closer.Close()
		}
	}()

	notionClient, err := notion.NewClient(notionOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize notion client: %w", err)
	}
	calendarClient, err := calendar.NewClient(calendarOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize calendar client: %w", err)
	}
	connectsClient, err := connects.NewClient(connectsOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize connects client: %w", err)
	}
	discordClient, err := discord.NewClient(discordOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize discord client: %w", err)
	}

	clock := timeutil.SystemClock{}
	timer := survey.NewTimer()
	registry := survey.NewRegistry(discordClient, timer)

	stepDefs, err := survey.CompileSteps(survey.DefaultSteps())
	if err != nil {
		return fmt.Errorf("failed to compile step conditions: %w", err)
	}
	coordinator := survey.NewCoordinator(notionClient, ledger, registry, discordClient, clock, timer, stepDefs, 0)

	rt := router.New(registry, coordinator, notionClient, clock)
	rt.Register(models.CommandRegister, steps.NewRegisterHandler(notionClient))
	rt.Register(models.CommandUnregister, steps.NewUnregisterHandler(notionClient))
	rt.Register(models.CommandCheckChannel, steps.NewCheckChannelHandler(notionClient))
	rt.Register(models.StepWorkloadToday, steps.NewWorkloadTodayHandler(notionClient, ledger, clock))
	rt.Register(models.StepWorkloadNextWeek, steps.NewWorkloadNextWeekHandler(notionClient, ledger))
	rt.Register(models.StepConnectsThisWeek, steps.NewConnectsHandler(ledger, connectsClient, notionClient))
	dayOff := steps.NewDayOffHandler(calendarClient, ledger)
	rt.Register(models.StepDayOffThisWeek, dayOff)
	rt.Register(models.StepDayOffNextWeek, dayOff)
	rt.Register(models.StepVacation, steps.NewVacationHandler(calendarClient, ledger))

	discordClient.Attach(rt, registry)
	if err := discordClient.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start discord transport: %w", err)
	}
	defer discordClient.Stop()

	var apiCfg Opts
	for _, opt := range apiOpts {
		opt(&apiCfg)
	}
	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if apiCfg.DailyCron != "" {
		if err := sched.AddJob(apiCfg.DailyCron, scheduler.DailyKick(notionClient, coordinator)); err != nil {
			return fmt.Errorf("failed to schedule daily kick: %w", err)
		}
		slog.Info("Run: daily kick scheduled", "cron", apiCfg.DailyCron)
	}

	server := NewServer(coordinator, registry, apiOpts...)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	slog.Info("Run: shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return server.Stop(ctx)
}

// buildLedger selects the ledger backend from the configured DSN. No DSN
// means in-memory, which loses the weekly ledger on restart.
func buildLedger(storeOpts []store.Option) (ports.LedgerPort, error) {
	var cfg store.Opts
	for _, opt := range storeOpts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Warn("buildLedger: no DSN configured, using in-memory ledger")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(cfg.DSN) == "postgres" {
		slog.Debug("buildLedger: using PostgreSQL backend")
		return store.NewPostgresStore(storeOpts...)
	}
	slog.Debug("buildLedger: using SQLite backend", "path", cfg.DSN)
	return store.NewSQLiteStore(storeOpts...)
}
