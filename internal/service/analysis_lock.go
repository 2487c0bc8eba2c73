package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Libera solo si el token coincide: un lease vencido y retomado por otro no se borra.
const redisLockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// AnalysisLock serializa corridas del mismo usuario entre instancias.
type AnalysisLock interface {
	Acquire(ctx context.Context, userID string) (token string, ok bool, err error)
	Release(ctx context.Context, userID, token string) error
}

type memoryLease struct {
	token   string
	expires time.Time
}

type memoryAnalysisLock struct {
	mu     sync.Mutex
	ttl    time.Duration
	leases map[string]memoryLease
}

// NewMemoryAnalysisLock sirve para una sola instancia o cuando no hay Redis.
func NewMemoryAnalysisLock(ttl time.Duration) AnalysisLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &memoryAnalysisLock{
		ttl:    ttl,
		leases: make(map[string]memoryLease),
	}
}

func (l *memoryAnalysisLock) Acquire(_ context.Context, userID string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	if lease, held := l.leases[userID]; held && now.Before(lease.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.leases[userID] = memoryLease{token: token, expires: now.Add(l.ttl)}
	return token, true, nil
}

func (l *memoryAnalysisLock) Release(_ context.Context, userID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lease, held := l.leases[userID]; held && lease.token == token {
		delete(l.leases, userID)
	}
	return nil
}

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redisEvaler
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisAnalysisLock struct {
	client redisLockClient
	ttl    time.Duration
	prefix string
}

func NewRedisAnalysisLock(client *redis.Client, ttl time.Duration) AnalysisLock {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisAnalysisLock{
		client: client,
		ttl:    ttl,
		prefix: "analysis:lock:",
	}
}

func (l *redisAnalysisLock) Acquire(ctx context.Context, userID string) (string, bool, error) {
	key := strings.TrimSpace(userID)
	if key == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *redisAnalysisLock) Release(ctx context.Context, userID, token string) error {
	if token == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return l.client.Eval(ctx, redisLockReleaseScript, []string{l.prefix + strings.TrimSpace(userID)}, token).Err()
}
