package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pmdelacruz/artifact-market/internal/redisx"
)

// Repository holds the session's shipping snapshot so it survives a
// reload between the shipping and payment steps.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*Address, error)
	Save(ctx context.Context, sessionID string, addr Address) error
	Clear(ctx context.Context, sessionID string) error
}

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*Address, error) {
	key := fmt.Sprintf(redisx.KeyShipping, sessionID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get shipping: %w", err)
	}

	var addr Address
	if err := json.Unmarshal(data, &addr); err != nil {
		_ = r.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &addr, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, addr Address) error {
	key := fmt.Sprintf(redisx.KeyShipping, sessionID)
	b, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("marshal shipping: %w", err)
	}
	if err := r.client.Set(ctx, key, b, redisx.TTLSession).Err(); err != nil {
		return fmt.Errorf("redis set shipping: %w", err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(redisx.KeyShipping, sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del shipping: %w", err)
	}
	return nil
}

type MemoryRepository struct {
	mu    sync.RWMutex
	addrs map[string]Address
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{addrs: make(map[string]Address)}
}

func (m *MemoryRepository) Load(_ context.Context, sessionID string) (*Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addr, ok := m.addrs[sessionID]
	if !ok {
		return nil, nil
	}
	return &addr, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, addr Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addrs[sessionID] = addr
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.addrs, sessionID)
	return nil
}
