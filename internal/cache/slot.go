package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultSlotKey = "stockNews"

// RedisSlot keeps a single entry under one Redis key. Every Store replaces
// the previous entry regardless of its key context.
type RedisSlot[T any] struct {
	client *redis.Client
	key    string
}

func NewRedisSlot[T any](client *redis.Client, key string) *RedisSlot[T] {
	if key == "" {
		key = DefaultSlotKey
	}
	return &RedisSlot[T]{client: client, key: key}
}

func (s *RedisSlot[T]) Name() string {
	return "redis:" + s.key
}

func (s *RedisSlot[T]) Lookup(ctx context.Context, keyContext string) (Entry[T], bool, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry[T]{}, false, nil
		}
		return Entry[T]{}, false, fmt.Errorf("failed to read slot %s: %w", s.key, err)
	}

	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry[T]{}, false, fmt.Errorf("failed to unmarshal slot %s: %w", s.key, err)
	}
	return entry, true, nil
}

func (s *RedisSlot[T]) Store(ctx context.Context, entry Entry[T]) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %s: %w", s.key, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.key, err)
	}
	return nil
}

// ConnectRedis opens a client for redisURL. Plain host:port values are
// accepted as well as redis:// URLs.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// MemorySlot is the in-process equivalent of RedisSlot.
type MemorySlot[T any] struct {
	mu    sync.RWMutex
	entry *Entry[T]
}

func NewMemorySlot[T any]() *MemorySlot[T] {
	return &MemorySlot[T]{}
}

func (s *MemorySlot[T]) Name() string {
	return "memory"
}

func (s *MemorySlot[T]) Lookup(ctx context.Context, keyContext string) (Entry[T], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return Entry[T]{}, false, nil
	}
	return *s.entry, true, nil
}

func (s *MemorySlot[T]) Store(ctx context.Context, entry Entry[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &entry
	return nil
}
