package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"office_manager_notifier/internal/app"
)

const passTimeout = 10 * time.Minute

// Trigger drives the recurring evaluation passes. Two states: stopped and
// running. The cadence is deliberately loose (hourly by default): the
// dispatcher's per-day dedup makes extra wake-ups harmless, so correctness
// never depends on wake-up precision.
type Trigger struct {
	notifService app.NotificationService
	logger       *logrus.Logger
	cronSpec     string

	mu         sync.Mutex
	cronEngine *cron.Cron
	running    bool
}

func NewTrigger(notifService app.NotificationService, logger *logrus.Logger, cronSpec string) *Trigger {
	return &Trigger{
		notifService: notifService,
		logger:       logger,
		cronSpec:     cronSpec,
	}
}

// Start transitions to running, performs one immediate pass and arms the
// recurring wake-up. Calling Start on a running trigger is a no-op.
func (t *Trigger) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.logger.Debug("trigger already running, ignoring Start")
		return nil
	}

	engine := cron.New(
		cron.WithLocation(time.Local),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := engine.AddFunc(t.cronSpec, t.runPass); err != nil {
		return err
	}

	t.cronEngine = engine
	t.running = true

	go t.runPass()
	engine.Start()
	t.logger.WithField("cron_spec", t.cronSpec).Info("notification trigger started")
	return nil
}

// Stop cancels the recurring wake-up. A pass already in flight is allowed
// to finish; no new pass is started afterwards.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	ctx := t.cronEngine.Stop()
	<-ctx.Done()
	t.cronEngine = nil
	t.running = false
	t.logger.Info("notification trigger stopped")
}

// Running reports the trigger state.
func (t *Trigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// runPass wraps one pass. Any failure is logged here and never allowed to
// break the recurring schedule.
func (t *Trigger) runPass() {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Errorf("panic during notification pass: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()

	if err := t.notifService.RunPass(ctx); err != nil {
		t.logger.Errorf("notification pass failed: %v", err)
	}
}
