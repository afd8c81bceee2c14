package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pmdelacruz/artifact-market/internal/redisx"
)

// RedisRepository keys carts by session id with a session TTL, so an
// expired session leaves no cart behind.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		// corrupt entry: reset to empty rather than fail the session
		_ = r.client.Del(ctx, key).Err()
		return []Line{}, nil
	}
	return lines, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, lines []Line) error {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, key, b, redisx.TTLSession).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
