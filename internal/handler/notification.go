package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"crm-notification-service/internal/domain/entity"
	domainservice "crm-notification-service/internal/domain/service"
	"crm-notification-service/internal/middleware"

	"github.com/google/uuid"
)

// NotificationHandler handles notification read-state HTTP requests
type NotificationHandler struct {
	notifications domainservice.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications domainservice.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type notificationResponse struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"userId"`
	Type        entity.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	Data        map[string]string       `json:"data,omitempty"`
	Priority    entity.Priority         `json:"priority"`
	IsRead      bool                    `json:"isRead"`
	CreatedAt   time.Time               `json:"createdAt"`
	ExpiresAt   *time.Time              `json:"expiresAt,omitempty"`
	ActionURL   *string                 `json:"actionUrl,omitempty"`
	ActionLabel *string                 `json:"actionLabel,omitempty"`
}

func toNotificationResponse(n *entity.Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
		Priority:    n.Priority,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
		ExpiresAt:   n.ExpiresAt,
		ActionURL:   n.ActionURL,
		ActionLabel: n.ActionLabel,
	}
}

// List retrieves the caller's notifications
// @Summary List notifications
// @Description Get the caller's notifications with optional filters and sorting
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by notification type"
// @Param priority query string false "Filter by priority"
// @Param is_read query boolean false "Filter by read state"
// @Param from query string false "Filter by creation date, RFC3339 lower bound"
// @Param to query string false "Filter by creation date, RFC3339 upper bound"
// @Param sort_by query string false "Sort field: created_at | priority | type"
// @Param order query string false "Sort order: asc | desc"
// @Success 200 {object} object{notifications=[]object,total_count=int}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /api/v1/notifications/list [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter, sort, err := parseListQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	notifications, err := h.notifications.List(r.Context(), userID, filter, sort)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationResponse(n))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"total_count":   len(items),
	})
}

// Update toggles a notification's read state
// @Summary Update read state
// @Description Mark a notification read (the only mutable field)
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{id=string,is_read=boolean} true "Update request"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/notifications/update [post]
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		ID     string `json:"id"`
		IsRead *bool  `json:"is_read"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}
	notificationID, err := uuid.Parse(req.ID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a valid UUID"})
		return
	}
	if req.IsRead == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "is_read is required"})
		return
	}
	if !*req.IsRead {
		// Notifications are immutable except for the read toggle; unreading
		// is not supported.
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "is_read can only be set to true"})
		return
	}

	if err := h.notifications.MarkRead(r.Context(), notificationID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}

// MarkAllRead marks every unread notification of the caller read
// @Summary Mark all read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string,updated=int}
// @Failure 401 {object} object{error=string}
// @Router /api/v1/notifications/mark-all-read [post]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := middleware.GetUserID(r)
	if userID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	updated, err := h.notifications.MarkAllRead(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "all notifications marked read",
		"updated": updated,
	})
}

// Delete removes a notification owned by the caller
// @Summary Delete a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{id=string} true "Delete request"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/notifications/delete [post]
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}
	notificationID, err := uuid.Parse(req.ID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a valid UUID"})
		return
	}

	if err := h.notifications.Delete(r.Context(), notificationID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}

// Create creates a test notification for the caller
// @Summary Create a test notification
// @Description Create a notification of the given type for the caller, for verifying the delivery path
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{type=string} true "Create request"
// @Success 201 {object} object{id=string,type=string,title=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /api/v1/notifications/create [post]
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
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
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "type is required"})
		return
	}

	notification, err := h.notifications.CreateTest(r.Context(), userID, entity.NotificationType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNotificationResponse(notification))
}

func parseListQuery(r *http.Request) (entity.NotificationFilter, entity.NotificationSort, error) {
	var filter entity.NotificationFilter
	var sort entity.NotificationSort

	q := r.URL.Query()

	if val := q.Get("type"); val != "" {
		t := entity.NotificationType(val)
		if !t.IsValid() {
			return filter, sort, fmt.Errorf("%w: unknown type %q", entity.ErrValidation, val)
		}
		filter.Type = &t
	}
	if val := q.Get("priority"); val != "" {
		p := entity.Priority(val)
		if !p.IsValid() {
			return filter, sort, fmt.Errorf("%w: unknown priority %q", entity.ErrValidation, val)
		}
		filter.Priority = &p
	}
	if val := q.Get("is_read"); val != "" {
		isRead, err := strconv.ParseBool(val)
		if err != nil {
			return filter, sort, fmt.Errorf("%w: is_read must be a boolean, got %q", entity.ErrValidation, val)
		}
		filter.IsRead = &isRead
	}
	if val := q.Get("from"); val != "" {
		from, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return filter, sort, fmt.Errorf("%w: from must be RFC3339, got %q", entity.ErrValidation, val)
		}
		filter.From = &from
	}
	if val := q.Get("to"); val != "" {
		to, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return filter, sort, fmt.Errorf("%w: to must be RFC3339, got %q", entity.ErrValidation, val)
		}
		filter.To = &to
	}

	switch q.Get("sort_by") {
	case "", "created_at":
		sort.Field = entity.SortByCreatedAt
	case "priority":
		sort.Field = entity.SortByPriority
	case "type":
		sort.Field = entity.SortByType
	default:
		return filter, sort, fmt.Errorf("%w: unknown sort_by %q", entity.ErrValidation, q.Get("sort_by"))
	}
	sort.Ascending = q.Get("order") == "asc"

	return filter, sort, nil
}
