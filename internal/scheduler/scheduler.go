package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/utkandevrim/ac/config"
)

const jobTimeout = 10 * time.Minute

// DuesJobs is the part of the dues service the scheduler drives.
type DuesJobs interface {
	SendReminders(ctx context.Context) (int, error)
	RollOverLedger(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic dues jobs in the club timezone.
type Scheduler struct {
	cron   *cron.Cron
	jobs   DuesJobs
	logger *zap.Logger
}

// New builds a scheduler and registers every job. An invalid cron spec is an error.
func New(cfg *config.Config, jobs DuesJobs, logger *zap.Logger) (*Scheduler, error) {
	cl := cronLogger{logger.Sugar()}
	c := cron.New(
		cron.WithLocation(cfg.Club.Location()),
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{cron: c, jobs: jobs, logger: logger}

	if _, err := c.AddFunc(cfg.Scheduler.DuesReminder, s.sendReminders); err != nil {
		return nil, fmt.Errorf("register dues reminder job: %w", err)
	}
	if _, err := c.AddFunc(cfg.Scheduler.LedgerRollover, s.rollOverLedger); err != nil {
		return nil, fmt.Errorf("register ledger rollover job: %w", err)
	}

	logger.Info("cron jobs registered",
		zap.String("dues_reminder", cfg.Scheduler.DuesReminder),
		zap.String("ledger_rollover", cfg.Scheduler.LedgerRollover),
	)
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("cron scheduler stopped")
}

// Entries is the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	sent, err := s.jobs.SendReminders(ctx)
	if err != nil {
		s.logger.Error("dues reminder job failed", zap.Int("sent", sent), zap.Error(err))
		return
	}
	s.logger.Info("dues reminder job finished", zap.Int("sent", sent))
}

func (s *Scheduler) rollOverLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	created, err := s.jobs.RollOverLedger(ctx)
	if err != nil {
		s.logger.Error("ledger rollover job failed", zap.Int64("created", created), zap.Error(err))
		return
	}
	s.logger.Info("ledger rollover job finished", zap.Int64("created", created))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
