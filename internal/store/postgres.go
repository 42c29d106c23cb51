// Package store provides storage backends for the weekly step ledger.
//
// This file implements the PostgreSQL-backed ledger.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/opsline/dailybot/internal/models"
)

// Database connection pool configuration constants.
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new Postgres ledger based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// UpsertStep writes or replaces the (channelID, stepName) row.
func (s *PostgresStore) UpsertStep(ctx context.Context, channelID, stepName string, completed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO n8n_survey_steps_missed (session_id, step_name, completed, updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, step_name)
		DO UPDATE SET completed = excluded.completed, updated = excluded.updated`,
		channelID, stepName, completed, time.Now())
	if err != nil {
		slog.Error("PostgresStore UpsertStep failed", "error", err, "channelID", channelID, "step", stepName)
		return fmt.Errorf("%w: upsert step %s: %v", models.ErrLedgerUnavailable, stepName, err)
	}
	slog.Debug("PostgresStore UpsertStep succeeded", "channelID", channelID, "step", stepName, "completed", completed)
	return nil
}

// FetchWeek returns the latest entry per step with updated >= weekStart.
func (s *PostgresStore) FetchWeek(ctx context.Context, channelID string, weekStart time.Time) ([]models.StepRecord, error) {
	var records []models.StepRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT step_name, completed, updated FROM n8n_survey_steps_missed
		WHERE session_id = $1 AND updated >= $2
		ORDER BY updated ASC`,
		channelID, weekStart)
	if err != nil {
		slog.Error("PostgresStore FetchWeek failed", "error", err, "channelID", channelID)
		return nil, fmt.Errorf("%w: fetch week: %v", models.ErrLedgerUnavailable, err)
	}
	out := dedupeLatest(records)
	slog.Debug("PostgresStore FetchWeek succeeded", "channelID", channelID, "count", len(out))
	return out, nil
}

// PendingSteps returns the expected steps not completed this week, in input order.
func (s *PostgresStore) PendingSteps(ctx context.Context, channelID string, weekStart time.Time, expected []string) ([]string, error) {
	records, err := s.FetchWeek(ctx, channelID, weekStart)
	if err != nil {
		return nil, err
	}
	pending := pendingFromRecords(records, expected)
	slog.Debug("PostgresStore PendingSteps computed", "channelID", channelID, "pending", len(pending), "expected", len(expected))
	return pending, nil
}

// Clear deletes all ledger rows (for tests).
func (s *PostgresStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM n8n_survey_steps_missed")
	if err != nil {
		slog.Error("PostgresStore Clear failed", "error", err)
	}
	return err
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
