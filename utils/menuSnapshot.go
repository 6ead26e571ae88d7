package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dendyfood/dendyfood-api/models"
	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned when no menu listing has been stored yet.
var ErrNoSnapshot = errors.New("no menu snapshot")

// MenuSnapshotStore keeps the last menu listing that was read successfully.
type MenuSnapshotStore interface {
	Save(ctx context.Context, items []models.FoodItem) error
	Load(ctx context.Context) ([]models.FoodItem, error)
}

type MemorySnapshotStore struct {
	mu    sync.RWMutex
	items []models.FoodItem
	saved bool
}

func (s *MemorySnapshotStore) Save(_ context.Context, items []models.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.FoodItem(nil), items...)
	s.saved = true
	return nil
}

func (s *MemorySnapshotStore) Load(_ context.Context) ([]models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, ErrNoSnapshot
	}
	return append([]models.FoodItem(nil), s.items...), nil
}

const menuSnapshotKey = "dendyfood:menu:snapshot"

// RedisSnapshotStore shares the snapshot between API instances.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore accepts either a redis:// URL or a host:port address.
// A non-empty password overrides the one in the URL.
func NewRedisSnapshotStore(redisURL, password string) (*RedisSnapshotStore, error) {
	opts := &redis.Options{Addr: redisURL, DB: 0}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}
	if password != "" {
		opts.Password = password
	}
	return &RedisSnapshotStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSnapshotStore) Save(ctx context.Context, items []models.FoodItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu snapshot: %w", err)
	}
	if err := s.client.Set(ctx, menuSnapshotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("store menu snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]models.FoodItem, error) {
	payload, err := s.client.Get(ctx, menuSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load menu snapshot: %w", err)
	}
	var items []models.FoodItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu snapshot: %w", err)
	}
	return items, nil
}

func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}
