// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper demotes expired published forms back to drafts on a cron
// schedule, independently of request handling. A failed sweep is
// logged and the next scheduled run proceeds normally.
type Sweeper struct {
	db       *sql.DB
	schedule string

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// New creates a sweeper. schedule is a standard cron expression,
// e.g. "0 3 * * *" for daily at 03:00.
func New(db *sql.DB, schedule string) *Sweeper {
	return &Sweeper{db: db, schedule: schedule}
}

// Start begins the scheduled sweeps. Calling Start on a running
// sweeper is a no-op.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	c.Start()

	s.cron = c
	s.running = true
	slog.Info("expiry sweeper started", "schedule", s.schedule)
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.running = false
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		slog.Info("expiry sweeper stopped")
	}
}

func (s *Sweeper) sweep() {
	demoted, err := SweepOnce(s.db)
	if err != nil {
		slog.Error("expiry sweep failed", "error", err)
		return
	}
	if demoted > 0 {
		slog.Info("expiry sweep completed", "demoted", demoted)
	}
}

// SweepOnce demotes every published form whose expiry date has passed
// and reports how many were affected. Running it again with no state
// change affects zero rows.
func SweepOnce(db *sql.DB) (int64, error) {
	result, err := db.Exec(`
		UPDATE forms SET is_published = FALSE, is_draft = TRUE
		WHERE expiry_date < $1 AND is_published = TRUE
	`, time.Now().Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("failed to demote expired forms: %w", err)
	}

	demoted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count demoted forms: %w", err)
	}
	return demoted, nil
}
