package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/farmtrack/farmtrack/internal/services"
	"github.com/farmtrack/farmtrack/pkg/logger"
	"github.com/farmtrack/farmtrack/pkg/metrics"
)

const defaultInterval = time.Hour

// Watcher periodically sweeps every user's drug inventory and emits
// near-expiration and low-stock notifications through the alert engine.
type Watcher struct {
	users  *services.UserService
	alerts *services.InventoryAlertService
	cron   *cron.Cron
	now    func() time.Time
	log    *zap.Logger

	interval time.Duration
	schedule string

	startup sync.WaitGroup
}

// Option customises the Watcher.
type Option func(*Watcher)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(w *Watcher) {
		if c != nil {
			w.cron = c
		}
	}
}

// WithNow overrides the clock used for sweep timing.
func WithNow(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// WithInterval adjusts how often the full-inventory sweep runs.
func WithInterval(interval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithSchedule overrides the cron specification, taking precedence over WithInterval.
func WithSchedule(spec string) Option {
	return func(w *Watcher) {
		if spec != "" {
			w.schedule = spec
		}
	}
}

// New constructs a Watcher with sensible defaults.
func New(users *services.UserService, alerts *services.InventoryAlertService, opts ...Option) (*Watcher, error) {
	if users == nil {
		return nil, errors.New("watcher: user service is required")
	}
	if alerts == nil {
		return nil, errors.New("watcher: alert service is required")
	}

	w := &Watcher{
		users:    users,
		alerts:   alerts,
		now:      time.Now,
		interval: defaultInterval,
		log:      logger.WithModule("watcher"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.schedule == "" {
		w.schedule = fmt.Sprintf("@every %s", w.interval)
	}
	if w.cron == nil {
		w.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return w, nil
}

// Start runs an immediate sweep and registers the recurring one with the
// cron scheduler.
func (w *Watcher) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, func() {
		if err := w.RunOnce(context.Background()); err != nil {
			w.log.Warn("inventory sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("watcher: schedule sweep: %w", err)
	}

	w.startup.Add(1)
	go func() {
		defer w.startup.Done()
		if err := w.RunOnce(context.Background()); err != nil {
			w.log.Warn("initial inventory sweep failed", zap.Error(err))
		}
	}()

	w.cron.Start()
	return nil
}

// Stop halts the underlying scheduler. The returned context is done once
// any in-flight cron sweep and the startup sweep have both finished.
func (w *Watcher) Stop() context.Context {
	if w.cron == nil {
		return context.Background()
	}

	cronCtx := w.cron.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		<-cronCtx.Done()
		w.startup.Wait()
	}()
	return ctx
}

// RunOnce sweeps every user's inventory sequentially. A failing user is
// logged and skipped so one broken cabinet cannot starve the rest; the
// aggregate error is returned for observability.
func (w *Watcher) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	started := w.now()
	defer func() {
		metrics.InventorySweepDuration.Observe(w.now().Sub(started).Seconds())
	}()

	ids, err := w.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("watcher: list users: %w", err)
	}

	var errs error
	for _, uid := range ids {
		if err := w.alerts.CheckUser(ctx, uid); err != nil {
			w.log.Warn("user sweep failed", zap.String("user_uid", uid), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}

	w.log.Debug("inventory sweep finished",
		zap.Int("users", len(ids)),
		zap.Duration("elapsed", w.now().Sub(started)),
	)

	return errs
}
