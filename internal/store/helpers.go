package store

import "github.com/opsline/dailybot/internal/models"

// latestPerStep reduces a chronologically ordered record list to the entry
// with the greatest updated timestamp per step. Last write wins.
func latestPerStep(records []models.StepRecord) map[string]models.StepRecord {
	latest := make(map[string]models.StepRecord, len(records))
	for _, rec := range records {
		if prev, ok := latest[rec.StepName]; ok && rec.UpdatedAt.Before(prev.UpdatedAt) {
			continue
		}
		latest[rec.StepName] = rec
	}
	return latest
}

// dedupeLatest keeps only the winning entry per step, preserving record order.
func dedupeLatest(records []models.StepRecord) []models.StepRecord {
	latest := latestPerStep(records)
	seen := make(map[string]bool, len(latest))
	out := make([]models.StepRecord, 0, len(latest))
	for _, rec := range records {
		if seen[rec.StepName] {
			continue
		}
		if win := latest[rec.StepName]; win.UpdatedAt.Equal(rec.UpdatedAt) && win.Completed == rec.Completed {
			out = append(out, rec)
			seen[rec.StepName] = true
		}
	}
	return out
}

// pendingFromRecords returns the subset of expected, in input order, whose
// latest entry is absent or incomplete.
func pendingFromRecords(records []models.StepRecord, expected []string) []string {
	latest := latestPerStep(records)
	pending := make([]string, 0, len(expected))
	for _, name := range expected {
		if rec, ok := latest[name]; ok && rec.Completed {
			continue
		}
		pending = append(pending, name)
	}
	return pending
}
