package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

const defaultIdempotencyKeyTTL = 24 * time.Hour

type RedisAdapter struct {
	client         *redis.Client
	idempotencyTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, idempotencyTTL time.Duration) *RedisAdapter {
	if idempotencyTTL <= 0 {
		idempotencyTTL = defaultIdempotencyKeyTTL
	}
	return &RedisAdapter{client: client, idempotencyTTL: idempotencyTTL}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, r.idempotencyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) GetSession(ctx context.Context, key string) (domain.ERPSession, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ERPSession{}, false, nil
	}
	if err != nil {
		return domain.ERPSession{}, false, err
	}

	var s domain.ERPSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.ERPSession{}, false, fmt.Errorf("decode session %s: %w", key, err)
	}
	return s, true, nil
}

// SetSession stores the session; a zero ttl means no expiry.
func (r *RedisAdapter) SetSession(ctx context.Context, key string, session domain.ERPSession, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

func (r *RedisAdapter) DeleteSession(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
