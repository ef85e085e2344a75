package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

const saveTimeout = 5 * time.Second

// SubmissionLog queues submission outcomes for asynchronous persistence so
// the checkout response never waits on the ledger database.
type SubmissionLog struct {
	mu     sync.RWMutex
	closed bool
	queue  chan domain.Submission
	logger *zap.Logger
}

func NewSubmissionLog(queueSize int, logger *zap.Logger) *SubmissionLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionLog{
		queue:  make(chan domain.Submission, queueSize),
		logger: logger,
	}
}

// Record enqueues the submission, dropping it when the queue is full or
// the log is closed.
func (l *SubmissionLog) Record(s domain.Submission) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}

	select {
	case l.queue <- s:
	default:
		l.logger.Warn("submission queue full, dropping ledger entry",
			zap.String("submission_id", s.ID),
			zap.Int64("order_id", s.OrderID),
		)
	}
}

// Run persists queued submissions until the queue is closed and drained.
func (l *SubmissionLog) Run(id int, repo port.SubmissionRepository) {
	for s := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)

		if err := repo.SaveSubmission(ctx, s); err != nil {
			l.logger.Error("failed to save submission",
				zap.Int("worker", id),
				zap.String("submission_id", s.ID),
				zap.Int64("order_id", s.OrderID),
				zap.Error(err),
			)
		} else {
			l.logger.Debug("saved submission", zap.Int("worker", id), zap.String("submission_id", s.ID))
		}

		cancel()
	}
}

func (l *SubmissionLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.queue)
}
