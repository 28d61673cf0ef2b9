package handler

import (
	"net/http"
	"time"

	domainservice "crm-notification-service/internal/domain/service"
)

// TriggerHandler handles the externally invoked evaluation endpoints.
// These are called by an external cron or by hand; the service keeps no
// timer of its own.
type TriggerHandler struct {
	engine    domainservice.TriggerEngine
	reminders domainservice.ReminderService
}

// NewTriggerHandler creates a new trigger handler
func NewTriggerHandler(engine domainservice.TriggerEngine, reminders domainservice.ReminderService) *TriggerHandler {
	return &TriggerHandler{
		engine:    engine,
		reminders: reminders,
	}
}

// Run evaluates every notification rule once
// @Summary Run all notification rules
// @Description Evaluate every rule once and report per-rule created/skipped/failed counts
// @Tags trigger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=boolean,rules=[]object,total_created=int,total_skipped=int,total_failed=int}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string,rules=[]object}
// @Router /api/v1/notifications/trigger [post]
func (h *TriggerHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary := h.engine.Run(r.Context(), time.Now().UTC())

	// Partial failure still answers 2xx with the detail embedded; only a
	// run where every rule errored is a server failure.
	status := http.StatusOK
	if summary.AllFailed() {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]interface{}{
		"success":       !summary.AllFailed(),
		"rules":         summary.Rules,
		"total_created": summary.TotalCreated,
		"total_skipped": summary.TotalSkipped,
		"total_failed":  summary.TotalFailed,
	})
}

// Reminders sends reminder emails for upcoming bookings
// @Summary Send booking reminders
// @Description Deliver reminders for bookings starting within the lead window, reporting per-booking outcomes
// @Tags trigger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=boolean,results=[]object,totalProcessed=int}
// @Failure 401 {object} object{error=string}
// @Router /api/v1/bookings/reminders [post]
func (h *TriggerHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := h.reminders.SendUpcoming(r.Context(), time.Now().UTC())

	status := http.StatusOK
	if !result.Success && result.TotalProcessed == 0 {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, result)
}
