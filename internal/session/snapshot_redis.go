package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abbasia-institute/portal-api/internal/models"
)

const redisSnapshotKey = "portal:session"

// RedisSnapshotStore keeps the session snapshot in Redis, for deployments
// where the gateway has no stable disk.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore wraps an existing client.
func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

// Save serializes the student record under the fixed session key.
func (s *RedisSnapshotStore) Save(ctx context.Context, student *models.Student) error {
	payload, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisSnapshotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("store session snapshot: %w", err)
	}
	return nil
}

// Load reads and parses the snapshot, failing closed on corrupt payloads.
func (s *RedisSnapshotStore) Load(ctx context.Context) (*models.Student, error) {
	raw, err := s.client.Get(ctx, redisSnapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read session snapshot: %w", err)
	}

	var student models.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return nil, fmt.Errorf("parse session snapshot: %w", err)
	}
	if student.ID == "" {
		return nil, fmt.Errorf("session snapshot missing student id")
	}
	return &student, nil
}

// Clear removes the snapshot key.
func (s *RedisSnapshotStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisSnapshotKey).Err(); err != nil {
		return fmt.Errorf("remove session snapshot: %w", err)
	}
	return nil
}
