package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepInterval is how often expired sessions are purged
const DefaultSweepInterval = time.Hour

// Sweeper periodically purges expired sessions from a TokenStore
type Sweeper struct {
	store    *TokenStore
	logger   *slog.Logger
	interval time.Duration
	cron     *cron.Cron
}

// NewSweeper creates a sweeper for store. It does nothing until Start is called.
func NewSweeper(store *TokenStore, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	cl := cronLogger{logger: logger}
	return &Sweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
	}
}

// Start schedules the sweep
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.RunOnce); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// RunOnce performs a single sweep
func (s *Sweeper) RunOnce() {
	removed := s.store.Sweep()
	s.logger.Debug("session sweep complete",
		slog.Int("removed", removed),
		slog.Int("remaining", s.store.Len()),
	)
}

// Stop cancels the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("session sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to the cron.Logger interface
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
