// Package scheduler runs periodic housekeeping jobs for the server.
//
// Agent recovery is never scheduled here; it happens lazily on read.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/example/praetor/internal/ctxutil"
	"github.com/example/praetor/internal/ports/primary"
)

// Pruner is the part of the event service the prune job needs.
type Pruner interface {
	PruneEvents(ctx context.Context, olderThanDays int) (int, error)
}

var _ Pruner = (primary.EventService)(nil)

// Scheduler prunes old events on a cron schedule.
type Scheduler struct {
	pruner        Pruner
	schedule      string
	retentionDays int
	cron          *rcron.Cron

	mu      sync.Mutex
	lastRun PruneResult
}

// PruneResult describes the most recent prune run.
type PruneResult struct {
	Deleted int
	Err     error
}

// New creates a scheduler. An empty schedule or non-positive retention
// disables pruning.
func New(pruner Pruner, schedule string, retentionDays int, opts ...rcron.Option) *Scheduler {
	return &Scheduler{
		pruner:        pruner,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          rcron.New(opts...),
	}
}

// Enabled reports whether the prune job will be registered.
func (s *Scheduler) Enabled() bool {
	return s.schedule != "" && s.retentionDays > 0
}

// Run registers the prune job and blocks until ctx is cancelled, then
// waits for a running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.Enabled() {
		slog.Info("event pruning disabled")
		<-ctx.Done()
		return nil
	}

	jobCtx := ctxutil.WithSource(context.WithoutCancel(ctx), ctxutil.SourceScheduler)
	if _, err := s.cron.AddFunc(s.schedule, func() { s.PruneOnce(jobCtx) }); err != nil {
		return fmt.Errorf("failed to register prune job %q: %w", s.schedule, err)
	}

	s.cron.Start()
	slog.Info("scheduler started", "prune_schedule", s.schedule, "retention_days", s.retentionDays)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
	return nil
}

// PruneOnce runs the prune job immediately.
func (s *Scheduler) PruneOnce(ctx context.Context) PruneResult {
	deleted, err := s.pruner.PruneEvents(ctx, s.retentionDays)
	if err != nil {
		slog.Error("event prune failed", "error", err)
	} else {
		slog.Info("events pruned", "deleted", deleted, "older_than_days", s.retentionDays)
	}

	result := PruneResult{Deleted: deleted, Err: err}
	s.mu.Lock()
	s.lastRun = result
	s.mu.Unlock()
	return result
}

// Location is the timezone the schedule is evaluated in.
func (s *Scheduler) Location() *time.Location {
	return s.cron.Location()
}

// LastRun returns the result of the most recent prune.
func (s *Scheduler) LastRun() PruneResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
