package container

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/store"
	"go.uber.org/zap"
)

const (
	sweepTimeout  = 5 * time.Minute
	pruneSchedule = "@every 1m"
)

// Scheduler runs the background jobs of the server.
type Scheduler struct {
	cron *cron.Cron
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Shutdown stops scheduling and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	<-s.cron.Stop().Done()

	return nil
}

// Entries is the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// SchedulerPackage provides the *Scheduler with the blob sweeper and, for in-process
// rate limit counts, a periodic prune.
func SchedulerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Scheduler, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i).Named("scheduler")
		cronLog := cronLogger{logger: logger.Sugar()}

		c := cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		)

		if opts.SweepSchedule != "" {
			sweeper := do.MustInvoke[*barcode.Sweeper](i)

			if _, err := c.AddFunc(opts.SweepSchedule, func() {
				ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
				defer cancel()

				if _, err := sweeper.Sweep(ctx); err != nil {
					logger.Error("blob sweep failed", zap.Error(err))
				}
			}); err != nil {
				return nil, err
			}
		}

		if !opts.RedisEnabled() && opts.RateLimitWrite+opts.RateLimitRead > 0 {
			counts := do.MustInvoke[*store.RateLimitMemoryStore](i)
			window := duration(opts.RateLimitWindow)

			if _, err := c.AddFunc(pruneSchedule, func() {
				if n := counts.Prune(window); n > 0 {
					logger.Debug("pruned rate limit keys", zap.Int("count", n))
				}
			}); err != nil {
				return nil, err
			}
		}

		return &Scheduler{cron: c}, nil
	})
}

// cronLogger routes cron logs through zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
