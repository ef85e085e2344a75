package port

import (
	"context"
	"time"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency drops a key so a rejected submission can be retried
	ReleaseIdempotency(ctx context.Context, key string) error
}

type SessionCache interface {
	// GetSession returns false when no unexpired session is stored under key
	GetSession(ctx context.Context, key string) (domain.ERPSession, bool, error)

	// SetSession stores the session; a zero ttl keeps it until deleted
	SetSession(ctx context.Context, key string, session domain.ERPSession, ttl time.Duration) error

	DeleteSession(ctx context.Context, key string) error
}
