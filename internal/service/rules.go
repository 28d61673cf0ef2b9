package service

import (
	"context"
	"fmt"
	"time"

	"crm-notification-service/internal/config"
	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"
	domainservice "crm-notification-service/internal/domain/service"
)

// NewRuleEvaluators builds the full rule set in its canonical order.
// Ordering is cosmetic; the rules are independent of each other.
func NewRuleEvaluators(
	cfg *config.RulesConfig,
	tasks repository.TaskRepository,
	prospects repository.ProspectRepository,
	projects repository.ProjectRepository,
) []domainservice.RuleEvaluator {
	return []domainservice.RuleEvaluator{
		&taskDueSoonRule{tasks: tasks, window: cfg.DueSoonWindow},
		&taskOverdueRule{tasks: tasks},
		&prospectFollowUpDueRule{prospects: prospects, window: cfg.DueSoonWindow},
		&prospectFollowUpOverdueRule{prospects: prospects},
		&deadlineApproachingRule{projects: projects, window: cfg.DeadlineWindow},
		&deadlinePassedRule{projects: projects},
		&forgottenTaskRule{tasks: tasks, staleAfter: cfg.TaskStaleAfter},
	}
}

type taskDueSoonRule struct {
	tasks  repository.TaskRepository
	window time.Duration
}

func (r *taskDueSoonRule) Name() string { return "task_due_soon" }

// Evaluate finds incomplete tasks due within [now, now+window). The upper
// bound is exclusive: a task due exactly at now+window is not yet due soon.
func (r *taskDueSoonRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	tasks, err := r.tasks.FindDueBetween(ctx, now, now.Add(r.window))
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}

	var events []entity.TriggerEvent
	for _, task := range tasks {
		if task.DueAt == nil || task.IsCompleted() {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   task.UserID,
			Type:     entity.NotificationTypeTaskDueSoon,
			SourceID: task.ID,
			Context: map[string]string{
				"title":  task.Title,
				"due_at": task.DueAt.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}

type taskOverdueRule struct {
	tasks repository.TaskRepository
}

func (r *taskOverdueRule) Name() string { return "task_overdue" }

func (r *taskOverdueRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	tasks, err := r.tasks.FindOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}

	var events []entity.TriggerEvent
	for _, task := range tasks {
		if task.DueAt == nil || task.IsCompleted() {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   task.UserID,
			Type:     entity.NotificationTypeTaskOverdue,
			SourceID: task.ID,
			Context: map[string]string{
				"title":  task.Title,
				"due_at": task.DueAt.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}

type prospectFollowUpDueRule struct {
	prospects repository.ProspectRepository
	window    time.Duration
}

func (r *prospectFollowUpDueRule) Name() string { return "prospect_followup_due" }

func (r *prospectFollowUpDueRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	prospects, err := r.prospects.FindFollowUpBetween(ctx, now, now.Add(r.window))
	if err != nil {
		return nil, fmt.Errorf("failed to query prospect follow-ups: %w", err)
	}

	var events []entity.TriggerEvent
	for _, prospect := range prospects {
		if prospect.FollowUpAt == nil {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   prospect.OwnerID,
			Type:     entity.NotificationTypeProspectFollowUpDue,
			SourceID: prospect.ID,
			Context: map[string]string{
				"name":         prospect.Name,
				"list_id":      prospect.ListID.String(),
				"follow_up_at": prospect.FollowUpAt.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}

type prospectFollowUpOverdueRule struct {
	prospects repository.ProspectRepository
}

func (r *prospectFollowUpOverdueRule) Name() string { return "prospect_followup_overdue" }

func (r *prospectFollowUpOverdueRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	prospects, err := r.prospects.FindFollowUpOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue follow-ups: %w", err)
	}

	var events []entity.TriggerEvent
	for _, prospect := range prospects {
		if prospect.FollowUpAt == nil {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   prospect.OwnerID,
			Type:     entity.NotificationTypeProspectFollowUpOverdue,
			SourceID: prospect.ID,
			Context: map[string]string{
				"name":         prospect.Name,
				"list_id":      prospect.ListID.String(),
				"follow_up_at": prospect.FollowUpAt.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}

type deadlineApproachingRule struct {
	projects repository.ProjectRepository
	window   time.Duration
}

func (r *deadlineApproachingRule) Name() string { return "deadline_approaching" }

func (r *deadlineApproachingRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	projects, err := r.projects.FindDeadlineBetween(ctx, now, now.Add(r.window))
	if err != nil {
		return nil, fmt.Errorf("failed to query approaching deadlines: %w", err)
	}

	var events []entity.TriggerEvent
	for _, project := range projects {
		if project.Deadline == nil || project.Completed {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   project.OwnerID,
			Type:     entity.NotificationTypeDeadlineApproaching,
			SourceID: project.ID,
			Context: map[string]string{
				"name":     project.Name,
				"deadline": project.Deadline.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}

type deadlinePassedRule struct {
	projects repository.ProjectRepository
}

func (r *deadlinePassedRule) Name() string { return "deadline_passed" }

func (r *deadlinePassedRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	projects, err := r.projects.FindDeadlinePassed(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query passed deadlines: %w", err)
	}

	var events []entity.TriggerEvent
	for _, project := range projects {
		if project.Deadline == nil || project.Completed {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   project.OwnerID,
			Type:     entity.NotificationTypeDeadlinePassed,
			SourceID: project.ID,
			Context: map[string]string{
				"name":     project.Name,
				"deadline": project.Deadline.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}

type forgottenTaskRule struct {
	tasks      repository.TaskRepository
	staleAfter time.Duration
}

func (r *forgottenTaskRule) Name() string { return "forgotten_task" }

// Evaluate flags incomplete tasks whose last status change is older than the
// staleness window. Staleness is measured from updated_at, not from comments.
func (r *forgottenTaskRule) Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error) {
	tasks, err := r.tasks.FindStale(ctx, now.Add(-r.staleAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to query stale tasks: %w", err)
	}

	var events []entity.TriggerEvent
	for _, task := range tasks {
		if task.IsCompleted() {
			continue
		}
		events = append(events, entity.TriggerEvent{
			UserID:   task.UserID,
			Type:     entity.NotificationTypeForgottenTask,
			SourceID: task.ID,
			Context: map[string]string{
				"title":      task.Title,
				"updated_at": task.UpdatedAt.Format(time.RFC3339),
			},
		})
	}

	return events, nil
}
