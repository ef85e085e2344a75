package erp

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

// SessionProvider hands out the ERP session used for remote calls.
type SessionProvider interface {
	Session(ctx context.Context) (domain.ERPSession, error)
	Invalidate(ctx context.Context) error
}

type Authenticator interface {
	Authenticate(ctx context.Context) (domain.ERPSession, error)
}

// CachingSessionProvider authenticates on first use and serves the cached
// session until it expires or is invalidated. Concurrent first calls may
// each authenticate; the last one stored wins.
type CachingSessionProvider struct {
	auth  Authenticator
	cache port.SessionCache
	key   string
	ttl   time.Duration
}

func NewCachingSessionProvider(auth Authenticator, cache port.SessionCache, key string, ttl time.Duration) *CachingSessionProvider {
	return &CachingSessionProvider{auth: auth, cache: cache, key: key, ttl: ttl}
}

func (p *CachingSessionProvider) Session(ctx context.Context) (domain.ERPSession, error) {
	if s, ok, err := p.cache.GetSession(ctx, p.key); err == nil && ok {
		return s, nil
	}

	s, err := p.auth.Authenticate(ctx)
	if err != nil {
		return domain.ERPSession{}, err
	}
	// A cache write failure only costs a re-authentication next time.
	_ = p.cache.SetSession(ctx, p.key, s, p.ttl)
	return s, nil
}

func (p *CachingSessionProvider) Invalidate(ctx context.Context) error {
	return p.cache.DeleteSession(ctx, p.key)
}

type memorySession struct {
	session   domain.ERPSession
	expiresAt time.Time
}

// MemorySessionCache keeps sessions in process memory.
type MemorySessionCache struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{sessions: make(map[string]memorySession), now: time.Now}
}

func (m *MemorySessionCache) GetSession(_ context.Context, key string) (domain.ERPSession, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[key]
	if !ok {
		return domain.ERPSession{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		return domain.ERPSession{}, false, nil
	}
	return entry.session, true, nil
}

func (m *MemorySessionCache) SetSession(_ context.Context, key string, session domain.ERPSession, ttl time.Duration) error {
	entry := memorySession{session: session}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.sessions[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionCache) DeleteSession(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
	return nil
}
