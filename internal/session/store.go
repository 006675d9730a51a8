// Package session keeps login state on the server. The browser only holds a
// signed cookie naming a Redis record.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/tutoria-api/internal/models"
)

const keyPrefix = "tutorias:session:"

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Data is the server-side session record.
type Data struct {
	UserID     int64           `json:"uid"`
	Username   string          `json:"username"`
	Role       models.UserRole `json:"role"`
	GestaoMode bool            `json:"gestao_mode"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuthContext projects the record into the per-request authorization context.
func (d Data) AuthContext() models.AuthContext {
	return models.AuthContext{
		UserID:     d.UserID,
		Username:   d.Username,
		Role:       d.Role,
		GestaoMode: d.GestaoMode,
	}
}

// Store persists session records.
type Store interface {
	Create(ctx context.Context, data Data) (string, error)
	Get(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data Data) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis with a sliding expiry.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// TTL returns the idle lifetime of a session.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session and returns its id.
func (s *RedisStore) Create(ctx context.Context, data Data) (string, error) {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	id := uuid.NewString()
	if err := s.Save(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Get loads a session and pushes its expiry forward.
func (s *RedisStore) Get(ctx context.Context, id string) (*Data, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	raw, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// Save overwrites a session record and resets its expiry.
func (s *RedisStore) Save(ctx context.Context, id string, data Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
