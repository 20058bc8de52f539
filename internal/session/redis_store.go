package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client    *redisv9.Client
	ttl       time.Duration
	keyPrefix string
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration, keyPrefix string) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if keyPrefix == "" {
		keyPrefix = "session:"
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisStore) Create(ctx context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, s.key(id), strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session failed: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (uint, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redisv9.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get session failed: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse session user id failed: %w", err)
	}
	return uint(userID), true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.keyPrefix + id
}
