package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/opsline/dailybot/internal/api"
	"github.com/opsline/dailybot/internal/calendar"
	"github.com/opsline/dailybot/internal/connects"
	"github.com/opsline/dailybot/internal/discord"
	"github.com/opsline/dailybot/internal/notion"
	"github.com/opsline/dailybot/internal/store"
	"github.com/opsline/dailybot/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for dailybot state data
	DefaultStateDir = "/var/lib/dailybot"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "dailybot.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	storeOpts := buildStoreOptions(flags)
	notionOpts := buildNotionOptions(flags)
	discordOpts := buildDiscordOptions(flags)
	calendarOpts := buildCalendarOptions(flags)
	connectsOpts := buildConnectsOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping dailybot with configured modules")
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr)
	if err := api.Run(storeOpts, notionOpts, discordOpts, calendarOpts, connectsOpts, apiOpts); err != nil {
		slog.Error("dailybot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("dailybot exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL   string
	StateDir      string
	DiscordToken  string
	DiscordGuild  string
	NotionToken   string
	DirectoryDB   string
	WorkloadDB    string
	ProfileDB     string
	CalendarURL   string
	CalendarToken string
	ConnectsURL   string
	APIAddr       string
	APIKey        string
	DailyCron     string
}

// Flags holds command line flag values
type Flags struct {
	stateDir      *string
	dbDSN         *string
	discordToken  *string
	discordGuild  *string
	notionToken   *string
	directoryDB   *string
	workloadDB    *string
	profileDB     *string
	calendarURL   *string
	calendarToken *string
	connectsURL   *string
	apiAddr       *string
	apiKey        *string
	dailyCron     *string
}

// initializeLogger sets up structured logging. DAILYBOT_DEBUG=true enables
// debug-level output.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("DAILYBOT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		StateDir:      os.Getenv("DAILYBOT_STATE_DIR"),
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		DiscordGuild:  os.Getenv("DISCORD_GUILD_ID"),
		NotionToken:   os.Getenv("NOTION_TOKEN"),
		DirectoryDB:   os.Getenv("NOTION_DIRECTORY_DB"),
		WorkloadDB:    os.Getenv("NOTION_WORKLOAD_DB"),
		ProfileDB:     os.Getenv("NOTION_PROFILE_DB"),
		CalendarURL:   os.Getenv("CALENDAR_WEBHOOK_URL"),
		CalendarToken: os.Getenv("CALENDAR_WEBHOOK_TOKEN"),
		ConnectsURL:   os.Getenv("CONNECTS_SINK_URL"),
		APIAddr:       os.Getenv("API_ADDR"),
		APIKey:        os.Getenv("API_KEY"),
		DailyCron:     os.Getenv("DAILY_CRON"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No DAILYBOT_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"DAILYBOT_STATE_DIR", config.StateDir,
		"DISCORD_TOKEN_SET", config.DiscordToken != "",
		"NOTION_TOKEN_SET", config.NotionToken != "",
		"CALENDAR_WEBHOOK_URL_SET", config.CalendarURL != "",
		"CONNECTS_SINK_URL_SET", config.ConnectsURL != "",
		"API_ADDR", config.APIAddr,
		"DAILY_CRON", config.DailyCron)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:      flag.String("state-dir", config.StateDir, "state directory for dailybot data (overrides $DAILYBOT_STATE_DIR)"),
		dbDSN:         flag.String("db-dsn", config.DatabaseURL, "database DSN for the step ledger (overrides $DATABASE_URL)"),
		discordToken:  flag.String("discord-token", config.DiscordToken, "Discord bot token (overrides $DISCORD_TOKEN)"),
		discordGuild:  flag.String("discord-guild", config.DiscordGuild, "guild ID for scoped command registration (overrides $DISCORD_GUILD_ID)"),
		notionToken:   flag.String("notion-token", config.NotionToken, "Notion integration token (overrides $NOTION_TOKEN)"),
		directoryDB:   flag.String("notion-directory-db", config.DirectoryDB, "Notion directory database ID (overrides $NOTION_DIRECTORY_DB)"),
		workloadDB:    flag.String("notion-workload-db", config.WorkloadDB, "Notion workload database ID (overrides $NOTION_WORKLOAD_DB)"),
		profileDB:     flag.String("notion-profile-db", config.ProfileDB, "Notion profile stats database ID (overrides $NOTION_PROFILE_DB)"),
		calendarURL:   flag.String("calendar-url", config.CalendarURL, "calendar webhook URL (overrides $CALENDAR_WEBHOOK_URL)"),
		calendarToken: flag.String("calendar-token", config.CalendarToken, "calendar webhook token (overrides $CALENDAR_WEBHOOK_TOKEN)"),
		connectsURL:   flag.String("connects-url", config.ConnectsURL, "connects sink URL (overrides $CONNECTS_SINK_URL)"),
		apiAddr:       flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		apiKey:        flag.String("api-key", config.APIKey, "bearer token for the kick endpoint (overrides $API_KEY)"),
		dailyCron:     flag.String("daily-cron", config.DailyCron, "cron expression for the built-in daily kick (overrides $DAILY_CRON)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"discordTokenSet", *flags.discordToken != "",
		"notionTokenSet", *flags.notionToken != "",
		"apiAddr", *flags.apiAddr,
		"dailyCron", *flags.dailyCron)

	// Update database DSN if not explicitly set but state directory is provided
	if *flags.dbDSN == config.DatabaseURL && config.DatabaseURL == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "old_state_dir", config.StateDir, "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if !strings.Contains(*flags.dbDSN, "postgres://") && !strings.Contains(*flags.dbDSN, "host=") {
		stateDir := filepath.Dir(*flags.dbDSN)
		slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
			return err
		}
	}
	return nil
}

// buildStoreOptions constructs ledger store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		if store.DetectDSNType(*flags.dbDSN) == "postgres" {
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL ledger")
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		} else {
			slog.Debug("Detected SQLite DSN, configuring SQLite ledger", "db_path", *flags.dbDSN)
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	} else {
		slog.Debug("No database DSN provided, will use in-memory ledger")
	}
	return storeOpts
}

// buildNotionOptions constructs Notion client configuration options
func buildNotionOptions(flags Flags) []notion.Option {
	notionOpts := []notion.Option{
		notion.WithToken(*flags.notionToken),
		notion.WithDirectoryDB(*flags.directoryDB),
		notion.WithWorkloadDB(*flags.workloadDB),
		notion.WithProfileDB(*flags.profileDB),
	}
	return notionOpts
}

// buildDiscordOptions constructs Discord client configuration options
func buildDiscordOptions(flags Flags) []discord.Option {
	discordOpts := []discord.Option{discord.WithToken(*flags.discordToken)}
	if *flags.discordGuild != "" {
		discordOpts = append(discordOpts, discord.WithGuildID(*flags.discordGuild))
	}
	return discordOpts
}

// buildCalendarOptions constructs calendar client configuration options
func buildCalendarOptions(flags Flags) []calendar.Option {
	calendarOpts := []calendar.Option{calendar.WithWebhookURL(*flags.calendarURL)}
	if *flags.calendarToken != "" {
		calendarOpts = append(calendarOpts, calendar.WithToken(*flags.calendarToken))
	}
	return calendarOpts
}

// buildConnectsOptions constructs connects sink configuration options
func buildConnectsOptions(flags Flags) []connects.Option {
	return []connects.Option{connects.WithURL(*flags.connectsURL)}
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.apiKey != "" {
		apiOpts = append(apiOpts, api.WithAPIKey(*flags.apiKey))
	}
	if *flags.dailyCron != "" {
		apiOpts = append(apiOpts, api.WithDailyCron(*flags.dailyCron))
	}
	return apiOpts
}
