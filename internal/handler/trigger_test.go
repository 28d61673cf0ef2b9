package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

type stubEngine struct {
	summary *entity.RunSummary
}

func (s *stubEngine) Run(ctx context.Context, now time.Time) *entity.RunSummary {
	return s.summary
}

type stubReminders struct {
	result *entity.ReminderRunResult
}

func (s *stubReminders) SendUpcoming(ctx context.Context, now time.Time) *entity.ReminderRunResult {
	return s.result
}

func TestTriggerRunPartialFailureIsOK(t *testing.T) {
	engine := &stubEngine{summary: &entity.RunSummary{
		Rules: []entity.RuleResult{
			{Rule: "task_due_soon", Created: 2},
			{Rule: "task_overdue", Error: "query timeout"},
		},
		TotalCreated: 2,
	}}

	h := NewTriggerHandler(engine, &stubReminders{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/trigger", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("partial failure must answer 200, got %d", rec.Code)
	}

	var body struct {
		Success      bool                `json:"success"`
		Rules        []entity.RuleResult `json:"rules"`
		TotalCreated int                 `json:"total_created"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success=true on partial failure")
	}
	if len(body.Rules) != 2 || body.TotalCreated != 2 {
		t.Fatalf("per-rule detail missing from response: %+v", body)
	}
}

func TestTriggerRunAllFailedIs500(t *testing.T) {
	engine := &stubEngine{summary: &entity.RunSummary{
		Rules: []entity.RuleResult{
			{Rule: "task_due_soon", Error: "down"},
			{Rule: "task_overdue", Error: "down"},
		},
	}}

	h := NewTriggerHandler(engine, &stubReminders{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/trigger", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("all-failed run must answer 500, got %d", rec.Code)
	}
}

func TestTriggerRunRejectsGet(t *testing.T) {
	h := NewTriggerHandler(&stubEngine{summary: &entity.RunSummary{}}, &stubReminders{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/trigger", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRemindersResponseShape(t *testing.T) {
	bookingID := uuid.New()
	reminders := &stubReminders{result: &entity.ReminderRunResult{
		Success:        false,
		TotalProcessed: 3,
		Results: []entity.ReminderResult{
			{BookingID: bookingID, Status: entity.ReminderStatusError, Message: "smtp timeout"},
		},
	}}

	h := NewTriggerHandler(&stubEngine{summary: &entity.RunSummary{}}, reminders)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/reminders", nil)
	rec := httptest.NewRecorder()

	h.Reminders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("partial reminder failure must answer 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["totalProcessed"].(float64) != 3 {
		t.Fatalf("expected totalProcessed=3, got %v", body["totalProcessed"])
	}
	results := body["results"].([]interface{})
	entry := results[0].(map[string]interface{})
	if entry["bookingId"] != bookingID.String() {
		t.Fatalf("expected bookingId %s, got %v", bookingID, entry["bookingId"])
	}
	if entry["status"] != "error" {
		t.Fatalf("expected status error, got %v", entry["status"])
	}
}

func TestRemindersQueryFailureIs500(t *testing.T) {
	reminders := &stubReminders{result: &entity.ReminderRunResult{Success: false, TotalProcessed: 0}}

	h := NewTriggerHandler(&stubEngine{summary: &entity.RunSummary{}}, reminders)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/reminders", nil)
	rec := httptest.NewRecorder()

	h.Reminders(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when nothing could be processed, got %d", rec.Code)
	}
}
