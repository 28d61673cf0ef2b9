package entity

import "github.com/google/uuid"

// RuleResult is the outcome of one rule evaluator within a trigger run
type RuleResult struct {
	Rule    string `json:"rule"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

// RunSummary aggregates the outcome of a full trigger run
type RunSummary struct {
	Rules        []RuleResult `json:"rules"`
	TotalCreated int          `json:"total_created"`
	TotalSkipped int          `json:"total_skipped"`
	TotalFailed  int          `json:"total_failed"`
}

// AllFailed reports whether every rule in the run errored
func (s *RunSummary) AllFailed() bool {
	if len(s.Rules) == 0 {
		return false
	}
	for _, r := range s.Rules {
		if r.Error == "" {
			return false
		}
	}
	return true
}

// ReminderStatus is the per-booking outcome of a reminder run
type ReminderStatus string

const (
	ReminderStatusSuccess ReminderStatus = "success"
	ReminderStatusError   ReminderStatus = "error"
)

// ReminderResult records the outcome of one booking reminder delivery
type ReminderResult struct {
	BookingID uuid.UUID      `json:"bookingId"`
	Status    ReminderStatus `json:"status"`
	Message   string         `json:"message"`
}

// ReminderRunResult aggregates a booking reminder run
type ReminderRunResult struct {
	Success        bool             `json:"success"`
	Results        []ReminderResult `json:"results"`
	TotalProcessed int              `json:"totalProcessed"`
}
