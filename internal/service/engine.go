package service

import (
	"context"
	"time"

	"crm-notification-service/internal/domain/entity"
	domainservice "crm-notification-service/internal/domain/service"

	"github.com/sirupsen/logrus"
)

type triggerEngine struct {
	rules   []domainservice.RuleEvaluator
	factory *NotificationFactory
}

// NewTriggerEngine creates the engine that runs every rule evaluator once
// per invocation. It holds no timer; callers decide when a run happens.
func NewTriggerEngine(rules []domainservice.RuleEvaluator, factory *NotificationFactory) domainservice.TriggerEngine {
	return &triggerEngine{
		rules:   rules,
		factory: factory,
	}
}

// Run evaluates all rules sequentially. A failing rule is recorded in its
// result and does not abort the others; a failing insert is counted and the
// rule keeps going. Nothing is retried within a run.
func (e *triggerEngine) Run(ctx context.Context, now time.Time) *entity.RunSummary {
	summary := &entity.RunSummary{}

	for _, rule := range e.rules {
		result := entity.RuleResult{Rule: rule.Name()}

		events, err := rule.Evaluate(ctx, now)
		if err != nil {
			logrus.Errorf("Rule %s failed: %v", rule.Name(), err)
			result.Error = err.Error()
			summary.Rules = append(summary.Rules, result)
			continue
		}

		for _, event := range events {
			created, err := e.factory.Create(ctx, event)
			switch {
			case err != nil:
				logrus.Errorf("Rule %s: failed to create notification for %s: %v", rule.Name(), event.SourceID, err)
				result.Failed++
			case created:
				result.Created++
			default:
				result.Skipped++
			}
		}

		summary.Rules = append(summary.Rules, result)
		summary.TotalCreated += result.Created
		summary.TotalSkipped += result.Skipped
		summary.TotalFailed += result.Failed
	}

	logrus.Infof("Trigger run complete: created=%d skipped=%d failed=%d",
		summary.TotalCreated, summary.TotalSkipped, summary.TotalFailed)

	return summary
}
