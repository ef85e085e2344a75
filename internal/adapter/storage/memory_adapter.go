package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

const maxMemorySubmissions = 1000

// MemoryAdapter stands in for Redis and MySQL when they are not configured.
// Its state does not survive a restart.
type MemoryAdapter struct {
	mu          sync.Mutex
	keys        map[string]time.Time
	ttl         time.Duration
	lastSweep   time.Time
	submissions []domain.Submission
	now         func() time.Time
}

func NewMemoryAdapter(idempotencyTTL time.Duration) *MemoryAdapter {
	if idempotencyTTL <= 0 {
		idempotencyTTL = defaultIdempotencyKeyTTL
	}
	return &MemoryAdapter{keys: make(map[string]time.Time), ttl: idempotencyTTL, now: time.Now}
}

func (m *MemoryAdapter) SetIdempotency(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	if expiresAt, ok := m.keys[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	m.keys[key] = now.Add(m.ttl)
	return true, nil
}

// sweep drops expired keys. Callers hold m.mu.
func (m *MemoryAdapter) sweep(now time.Time) {
	for key, expiresAt := range m.keys {
		if !now.Before(expiresAt) {
			delete(m.keys, key)
		}
	}
	m.lastSweep = now
}

func (m *MemoryAdapter) ReleaseIdempotency(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.keys, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) SaveSubmission(_ context.Context, s domain.Submission) error {
	m.mu.Lock()
	m.submissions = append(m.submissions, s)
	if n := len(m.submissions); n > maxMemorySubmissions {
		m.submissions = append([]domain.Submission(nil), m.submissions[n-maxMemorySubmissions:]...)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) Submissions() []domain.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Submission, len(m.submissions))
	copy(out, m.submissions)
	return out
}
