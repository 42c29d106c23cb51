// Package store provides storage backends for the weekly step ledger.
//
// It includes SQLite and PostgreSQL backends plus an in-memory store used in
// tests and DSN-less runs. All backends implement ports.LedgerPort.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/opsline/dailybot/internal/models"
	"github.com/opsline/dailybot/internal/ports"
)

// Opts holds configuration for store backends.
type Opts struct {
	DSN string
}

// Option configures a store backend.
type Option func(*Opts)

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite".
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// Interface guards.
var (
	_ ports.LedgerPort = (*SQLiteStore)(nil)
	_ ports.LedgerPort = (*PostgresStore)(nil)
	_ ports.LedgerPort = (*InMemoryStore)(nil)
)

// InMemoryStore keeps the ledger in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]models.StepRecord // channelID -> stepName -> record
}

// NewInMemoryStore creates an empty in-memory ledger.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]map[string]models.StepRecord)}
}

// UpsertStep writes or replaces the (channelID, stepName) entry.
func (s *InMemoryStore) UpsertStep(ctx context.Context, channelID, stepName string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[channelID] == nil {
		s.entries[channelID] = make(map[string]models.StepRecord)
	}
	s.entries[channelID][stepName] = models.StepRecord{
		StepName:  stepName,
		Completed: completed,
		UpdatedAt: time.Now(),
	}
	return nil
}

// FetchWeek returns entries for the channel with updated >= weekStart.
func (s *InMemoryStore) FetchWeek(ctx context.Context, channelID string, weekStart time.Time) ([]models.StepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []models.StepRecord
	for _, rec := range s.entries[channelID] {
		if !rec.UpdatedAt.Before(weekStart) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UpdatedAt.Before(records[j].UpdatedAt) })
	return records, nil
}

// PendingSteps returns the expected steps not completed this week, in input order.
func (s *InMemoryStore) PendingSteps(ctx context.Context, channelID string, weekStart time.Time, expected []string) ([]string, error) {
	records, err := s.FetchWeek(ctx, channelID, weekStart)
	if err != nil {
		return nil, err
	}
	return pendingFromRecords(records, expected), nil
}
