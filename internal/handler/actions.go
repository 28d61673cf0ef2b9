package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"crm-notification-service/internal/domain/entity"
	domainservice "crm-notification-service/internal/domain/service"
	"crm-notification-service/internal/middleware"

	"github.com/google/uuid"
)

// ActionHandler handles prospect action log HTTP requests
type ActionHandler struct {
	actions domainservice.ActionLogService
}

// NewActionHandler creates a new action log handler
func NewActionHandler(actions domainservice.ActionLogService) *ActionHandler {
	return &ActionHandler{actions: actions}
}

type actionResponse struct {
	ID         uuid.UUID         `json:"id"`
	ListID     uuid.UUID         `json:"listId"`
	ProspectID uuid.UUID         `json:"prospectId"`
	Kind       entity.ActionKind `json:"kind"`
	Field      string            `json:"field"`
	OldValue   string            `json:"oldValue"`
	NewValue   string            `json:"newValue"`
	Undone     bool              `json:"undone"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func toActionResponse(a *entity.ProspectAction) actionResponse {
	return actionResponse{
		ID:         a.ID,
		ListID:     a.ListID,
		ProspectID: a.ProspectID,
		Kind:       a.Kind,
		Field:      a.Field,
		OldValue:   a.OldValue,
		NewValue:   a.NewValue,
		Undone:     a.Undone,
		CreatedAt:  a.CreatedAt,
	}
}

// Record appends a prospect edit to the action log
// @Summary Record a prospect edit
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{list_id=string,prospect_id=string,kind=string,field=string,old_value=string,new_value=string} true "Edit to record"
// @Success 201 {object} object{id=string}
// @Failure 400 {object} object{error=string}
// @Router /api/v1/prospects/actions/record [post]
func (h *ActionHandler) Record(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ListID     string `json:"list_id"`
		ProspectID string `json:"prospect_id"`
		Kind       string `json:"kind"`
		Field      string `json:"field"`
		OldValue   string `json:"old_value"`
		NewValue   string `json:"new_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "list_id must be a valid UUID"})
		return
	}
	prospectID, err := uuid.Parse(req.ProspectID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prospect_id must be a valid UUID"})
		return
	}

	action := &entity.ProspectAction{
		ListID:     listID,
		ProspectID: prospectID,
		UserID:     userID,
		Kind:       entity.ActionKind(req.Kind),
		Field:      req.Field,
		OldValue:   req.OldValue,
		NewValue:   req.NewValue,
	}

	if err := h.actions.Record(r.Context(), action); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": action.ID.String()})
}

// Undo reverts the newest applied edit for a prospect
// @Summary Undo the latest prospect edit
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{list_id=string,prospect_id=string} true "Undo target"
// @Success 200 {object} object{field=string,value=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/prospects/actions/undo [post]
func (h *ActionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.flip(w, r, h.actions.Undo)
}

// Redo re-applies the newest undone edit for a prospect
// @Summary Redo the latest undone prospect edit
// @Tags actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{list_id=string,prospect_id=string} true "Redo target"
// @Success 200 {object} object{field=string,value=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/prospects/actions/redo [post]
func (h *ActionHandler) Redo(w http.ResponseWriter, r *http.Request) {
	h.flip(w, r, h.actions.Redo)
}

// flip shares the undo/redo request plumbing; the two endpoints differ only
// in which direction the log entry is flipped.
func (h *ActionHandler) flip(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, listID, prospectID, userID uuid.UUID) (*entity.ProspectAction, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ListID     string `json:"list_id"`
		ProspectID string `json:"prospect_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "list_id must be a valid UUID"})
		return
	}
	prospectID, err := uuid.Parse(req.ProspectID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prospect_id must be a valid UUID"})
		return
	}

	action, err := op(r.Context(), listID, prospectID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	field, value := action.Inverse()
	if !action.Undone {
		// A redo re-applies the recorded change.
		field, value = action.Field, action.NewValue
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"action": toActionResponse(action),
		"apply": map[string]string{
			"field": field,
			"value": value,
		},
	})
}

// History lists the caller's recorded edits for a prospect, newest first
// @Summary Prospect edit history
// @Tags actions
// @Produce json
// @Security BearerAuth
// @Param list_id query string true "Prospect list ID"
// @Param prospect_id query string true "Prospect ID"
// @Success 200 {object} object{actions=[]object,total_count=int}
// @Failure 400 {object} object{error=string}
// @Router /api/v1/prospects/actions/history [get]
func (h *ActionHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	listID, err := uuid.Parse(r.URL.Query().Get("list_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "list_id must be a valid UUID"})
		return
	}
	prospectID, err := uuid.Parse(r.URL.Query().Get("prospect_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prospect_id must be a valid UUID"})
		return
	}

	actions, err := h.actions.History(r.Context(), listID, prospectID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]actionResponse, 0, len(actions))
	for _, a := range actions {
		items = append(items, toActionResponse(a))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actions":     items,
		"total_count": len(items),
	})
}
