package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the live-session record the auth provider maintains in Redis.
// This service only reads sessions; creating and revoking them belongs to
// the auth provider.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStorage reads sessions from Redis
type SessionStorage struct {
	client *redis.Client
}

// NewSessionStorage creates a new session storage
func NewSessionStorage(client *redis.Client) *SessionStorage {
	return &SessionStorage{client: client}
}

func (s *SessionStorage) sessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s", sessionID.String())
}

// Get retrieves a session by ID; entity.ErrNotFound when absent or expired
func (s *SessionStorage) Get(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, entity.ErrNotFound
	}

	return &session, nil
}
