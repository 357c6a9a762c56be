package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mentai-server/models"
)

// courseDataKey mirrors the browser localStorage key the snapshot replaced.
const courseDataKey = "courseData"

// RedisStore keeps each owner's snapshot under courseData:<owner>.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) key(owner string) string {
	return courseDataKey + ":" + owner
}

func (s *RedisStore) Save(ctx context.Context, owner string, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to serialize course snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(owner), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save course snapshot for %s: %w", owner, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, owner string) (*models.Course, error) {
	data, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load course snapshot for %s: %w", owner, err)
	}

	var course models.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, ErrNotFound
	}
	return &course, nil
}

func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("failed to clear course snapshot for %s: %w", owner, err)
	}
	return nil
}
