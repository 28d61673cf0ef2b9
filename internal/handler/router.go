package handler

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"crm-notification-service/internal/middleware"
)

// Router sets up HTTP routes
type Router struct {
	notificationHandler *NotificationHandler
	triggerHandler      *TriggerHandler
	actionHandler       *ActionHandler
	authMiddleware      *middleware.AuthMiddleware
	rateLimiter         *middleware.RateLimiter
	triggerSecret       string
	mux                 *http.ServeMux
}

// NewRouter creates a new router
func NewRouter(
	notificationHandler *NotificationHandler,
	triggerHandler *TriggerHandler,
	actionHandler *ActionHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	triggerSecret string,
) *Router {
	return &Router{
		notificationHandler: notificationHandler,
		triggerHandler:      triggerHandler,
		actionHandler:       actionHandler,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		triggerSecret:       triggerSecret,
		mux:                 http.NewServeMux(),
	}
}

// Setup configures all routes
func (r *Router) Setup() http.Handler {
	triggerAuth := middleware.TriggerAuth(r.triggerSecret)

	// Externally invoked (cron or manual) endpoints
	r.mux.HandleFunc("/api/v1/notifications/trigger", triggerAuth(r.triggerHandler.Run))
	r.mux.HandleFunc("/api/v1/bookings/reminders", triggerAuth(r.triggerHandler.Reminders))

	// Notification read-state routes (all require an authenticated session)
	r.mux.HandleFunc("/api/v1/notifications/list", r.authMiddleware.Auth(r.notificationHandler.List))
	r.mux.HandleFunc("/api/v1/notifications/update", r.authMiddleware.Auth(r.notificationHandler.Update))
	r.mux.HandleFunc("/api/v1/notifications/delete", r.authMiddleware.Auth(r.notificationHandler.Delete))
	r.mux.HandleFunc("/api/v1/notifications/mark-all-read", r.authMiddleware.Auth(r.notificationHandler.MarkAllRead))
	r.mux.HandleFunc("/api/v1/notifications/create", r.authMiddleware.Auth(r.notificationHandler.Create))

	// Prospect action log routes
	r.mux.HandleFunc("/api/v1/prospects/actions/record", r.authMiddleware.Auth(r.actionHandler.Record))
	r.mux.HandleFunc("/api/v1/prospects/actions/undo", r.authMiddleware.Auth(r.actionHandler.Undo))
	r.mux.HandleFunc("/api/v1/prospects/actions/redo", r.authMiddleware.Auth(r.actionHandler.Redo))
	r.mux.HandleFunc("/api/v1/prospects/actions/history", r.authMiddleware.Auth(r.actionHandler.History))

	r.mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	r.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = r.mux

	handler = middleware.Logging(handler)

	handler = r.rateLimiter.Handler(handler)

	return handler
}
