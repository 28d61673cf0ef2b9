package middleware

import (
	"context"
	"net/http"
	"strings"

	"crm-notification-service/internal/infrastructure/redis"
	"crm-notification-service/pkg/jwt"

	"github.com/google/uuid"
)

type contextKey string

const (
	// UserIDKey carries the authenticated user's ID in the request context
	UserIDKey contextKey = "userID"
	// SessionIDKey carries the live session ID in the request context
	SessionIDKey contextKey = "sessionID"
)

// AuthMiddleware validates bearer tokens and checks the session is still live
type AuthMiddleware struct {
	tokens   *jwt.TokenManager
	sessions *redis.SessionStorage
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *jwt.TokenManager, sessions *redis.SessionStorage) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
	}
}

// Auth validates the JWT from the Authorization header and confirms the
// session has not been revoked
func (m *AuthMiddleware) Auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "Missing or malformed authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		session, err := m.sessions.Get(r.Context(), claims.SessionID)
		if err != nil {
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}

		if session.UserID != claims.UserID {
			http.Error(w, "Invalid session", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(r *http.Request) uuid.UUID {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
