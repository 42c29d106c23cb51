// Package store provides storage backends for the weekly step ledger.
//
// This file implements the SQLite-backed ledger.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/opsline/dailybot/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite ledger with the given DSN. The DSN is a
// file path; its directory is created when missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// UpsertStep writes or replaces the (channelID, stepName) row.
func (s *SQLiteStore) UpsertStep(ctx context.Context, channelID, stepName string, completed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO n8n_survey_steps_missed (session_id, step_name, completed, updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, step_name)
		DO UPDATE SET completed = excluded.completed, updated = excluded.updated`,
		channelID, stepName, completed, time.Now())
	if err != nil {
		slog.Error("SQLiteStore UpsertStep failed", "error", err, "channelID", channelID, "step", stepName)
		return fmt.Errorf("%w: upsert step %s: %v", models.ErrLedgerUnavailable, stepName, err)
	}
	slog.Debug("SQLiteStore UpsertStep succeeded", "channelID", channelID, "step", stepName, "completed", completed)
	return nil
}

// FetchWeek returns the latest entry per step with updated >= weekStart.
func (s *SQLiteStore) FetchWeek(ctx context.Context, channelID string, weekStart time.Time) ([]models.StepRecord, error) {
	var records []models.StepRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT step_name, completed, updated FROM n8n_survey_steps_missed
		WHERE session_id = ? AND updated >= ?
		ORDER BY updated ASC`,
		channelID, weekStart)
	if err != nil {
		slog.Error("SQLiteStore FetchWeek failed", "error", err, "channelID", channelID)
		return nil, fmt.Errorf("%w: fetch week: %v", models.ErrLedgerUnavailable, err)
	}
	out := dedupeLatest(records)
	slog.Debug("SQLiteStore FetchWeek succeeded", "channelID", channelID, "count", len(out))
	return out, nil
}

// PendingSteps returns the expected steps not completed this week, in input order.
func (s *SQLiteStore) PendingSteps(ctx context.Context, channelID string, weekStart time.Time, expected []string) ([]string, error) {
	records, err := s.FetchWeek(ctx, channelID, weekStart)
	if err != nil {
		return nil, err
	}
	pending := pendingFromRecords(records, expected)
	slog.Debug("SQLiteStore PendingSteps computed", "channelID", channelID, "pending", len(pending), "expected", len(expected))
	return pending, nil
}

// Clear deletes all ledger rows (for tests).
func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM n8n_survey_steps_missed")
	if err != nil {
		slog.Error("SQLiteStore Clear failed", "error", err)
	}
	return err
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
