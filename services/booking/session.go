package booking

import (
	"context"
	"encoding/json"
	"time"

	"serenity/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "booking:session:"

// SessionStore persists in-flight booking sessions.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	// Save writes the session and refreshes its TTL.
	Save(ctx context.Context, session *models.BookingSession) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps booking sessions in Redis with a sliding TTL, so
// abandoned flows disappear on their own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+session.SessionID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}
