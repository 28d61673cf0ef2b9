package cron

import (
	"context"
	"fmt"
	"time"

	domainservice "crm-notification-service/internal/domain/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// TriggerRunner invokes the trigger engine on a local schedule. It is an
// opt-in convenience for development and single-box deployments; production
// setups leave it disabled and call the trigger endpoint from external cron.
type TriggerRunner struct {
	engine    domainservice.TriggerEngine
	reminders domainservice.ReminderService
	cron      *cron.Cron
	interval  time.Duration
}

// NewTriggerRunner creates a new local trigger runner
func NewTriggerRunner(engine domainservice.TriggerEngine, reminders domainservice.ReminderService, interval time.Duration) *TriggerRunner {
	return &TriggerRunner{
		engine:    engine,
		reminders: reminders,
		cron:      cron.New(),
		interval:  interval,
	}
}

// Start schedules the periodic runs
func (t *TriggerRunner) Start() error {
	cronExpr := fmt.Sprintf("@every %s", t.interval.String())

	logrus.Infof("Starting local trigger runner with interval: %s", t.interval)

	_, err := t.cron.AddFunc(cronExpr, func() {
		t.runOnce()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	t.cron.Start()
	return nil
}

// Stop stops the runner and waits for an in-flight run to finish
func (t *TriggerRunner) Stop() {
	logrus.Info("Stopping local trigger runner...")
	ctx := t.cron.Stop()
	<-ctx.Done()
	logrus.Info("Local trigger runner stopped")
}

func (t *TriggerRunner) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()

	summary := t.engine.Run(ctx, now)
	if summary.AllFailed() {
		logrus.Error("Local trigger run: all rules failed")
	}

	result := t.reminders.SendUpcoming(ctx, now)
	if !result.Success {
		logrus.Warnf("Local reminder run finished with failures: %d processed", result.TotalProcessed)
	}
}
