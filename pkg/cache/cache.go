// Package cache holds short-lived string values (captcha answers, session
// tokens) in Redis, or in process when Redis is not configured.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrNotFound = errors.New("cache: key not found")

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// Take 读取并删除，同一个 key 只能成功一次
	Take(ctx context.Context, key string) (string, error)
}

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (s *RedisStore) Take(ctx context.Context, key string) (string, error) {
	val, err := s.Client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore 进程内实现，容量满时淘汰最久未使用的条目
type MemoryStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// NewMemoryStore maxTTL 是条目在 LRU 中的最长存活时间，单条 TTL 不能超过它
func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		lru: expirable.NewLRU[string, entry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Add(key, entry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) lookup(key string, remove bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lru.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return "", ErrNotFound
	}
	if remove {
		s.lru.Remove(key)
	}
	return e.value, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	return s.lookup(key, false)
}

func (s *MemoryStore) Take(ctx context.Context, key string) (string, error) {
	return s.lookup(key, true)
}
