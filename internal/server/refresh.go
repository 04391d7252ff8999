package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-assistant/internal/config"
)

// Refresher runs Job once immediately, then on every tick of Schedule.
type Refresher struct {
	// Schedule is a standard five-field cron spec or a descriptor such as
	// "@daily" or "@every 1h".
	Schedule string

	// Job recomputes and publishes the feed. Errors are logged and the
	// previous publication stays in place.
	Job func(ctx context.Context) error
}

// Run blocks until ctx is cancelled and the running job, if any, returns.
func (r *Refresher) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)
	logger := cronLogger{log: log}

	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(r.Schedule, func() { r.tick(ctx, log) }); err != nil {
		return fmt.Errorf("%s %q: %w", config.ErrSchedule, r.Schedule, err)
	}

	r.tick(ctx, log)

	c.Start()
	log.Info(config.MsgWorkerStart, config.LogKeySchedule, r.Schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info(config.MsgWorkerStop)
	return nil
}

func (r *Refresher) tick(ctx context.Context, log *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	if err := r.Job(ctx); err != nil {
		log.Error(config.MsgRefreshFailed, config.LogKeyError, err)
	}
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, config.LogKeyError, err)...)
}
