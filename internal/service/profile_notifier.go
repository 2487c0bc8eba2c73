package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"habit-persona/internal/domain"
)

// ProfileNotifier avisa a otros servicios que un usuario tiene perfil nuevo.
// Se llama despues de persistir; el motor nunca notifica.
type ProfileNotifier interface {
	ProfileUpdated(ctx context.Context, profile domain.PersonalityProfile) error
}

// ProfileUpdatedEvent es el mensaje publicado. No incluye puntajes.
type ProfileUpdatedEvent struct {
	UserID           string                 `json:"userId"`
	ConfidenceLevel  domain.ConfidenceLevel `json:"confidenceLevel"`
	AlgorithmVersion string                 `json:"algorithmVersion"`
	GeneratedAt      time.Time              `json:"generatedAt"`
}

type noopProfileNotifier struct{}

func (noopProfileNotifier) ProfileUpdated(context.Context, domain.PersonalityProfile) error {
	return nil
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisProfileNotifier struct {
	client  redisPublisher
	channel string
}

func NewRedisProfileNotifier(client *redis.Client, channel string) ProfileNotifier {
	if client == nil || channel == "" {
		return nil
	}
	return &redisProfileNotifier{client: client, channel: channel}
}

func (n *redisProfileNotifier) ProfileUpdated(ctx context.Context, profile domain.PersonalityProfile) error {
	payload, err := json.Marshal(ProfileUpdatedEvent{
		UserID:           profile.UserID,
		ConfidenceLevel:  profile.ConfidenceLevel,
		AlgorithmVersion: profile.AlgorithmVersion,
		GeneratedAt:      profile.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("encode profile event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return n.client.Publish(ctx, n.channel, payload).Err()
}
