package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically prunes sessions older than the retention window.
type Janitor struct {
	store     *Store
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewJanitor schedules pruning with a cron spec such as "@every 1h" or "0 3 * * *".
func NewJanitor(log *slog.Logger, store *Store, schedule string, retention time.Duration) (*Janitor, error) {
	if log == nil {
		log = slog.Default()
	}
	if retention <= 0 {
		return nil, fmt.Errorf("session retention must be positive, got %s", retention)
	}
	j := &Janitor{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		logger:    log.With(slog.String("service", "session_janitor")),
	}
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule: %w", err)
	}
	return j, nil
}

// Start begins the schedule in the background.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running prune, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) error {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Prune runs one pass immediately.
func (j *Janitor) Prune(ctx context.Context) (int64, error) {
	return j.store.PruneBefore(ctx, time.Now().Add(-j.retention))
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := j.Prune(ctx); err != nil {
		j.logger.Warn("session prune failed", slog.Any("error", err))
	}
}
