package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"habit-persona/internal/domain"
)

// ProfileCache guarda el ultimo perfil por usuario para las lecturas de la API.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (domain.PersonalityProfile, bool, error)
	Set(ctx context.Context, profile domain.PersonalityProfile) error
}

type noopProfileCache struct{}

func (noopProfileCache) Get(context.Context, string) (domain.PersonalityProfile, bool, error) {
	return domain.PersonalityProfile{}, false, nil
}

func (noopProfileCache) Set(context.Context, domain.PersonalityProfile) error {
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisProfileCache struct {
	client redisKVClient
	ttl    time.Duration
	prefix string
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) ProfileCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisProfileCache{
		client: client,
		ttl:    ttl,
		prefix: "profile:latest:",
	}
}

func (c *redisProfileCache) Get(ctx context.Context, userID string) (domain.PersonalityProfile, bool, error) {
	key := strings.TrimSpace(userID)
	if key == "" {
		return domain.PersonalityProfile{}, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.PersonalityProfile{}, false, nil
	}
	if err != nil {
		return domain.PersonalityProfile{}, false, err
	}
	var profile domain.PersonalityProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return domain.PersonalityProfile{}, false, fmt.Errorf("decode cached profile: %w", err)
	}
	return profile, true, nil
}

func (c *redisProfileCache) Set(ctx context.Context, profile domain.PersonalityProfile) error {
	key := strings.TrimSpace(profile.UserID)
	if key == "" {
		return nil
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err()
}
