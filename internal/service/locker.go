package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pkgerrors "college-schedule/backend/pkg/errors"
)

// ErrIngestInProgress загрузка или пересчёт звонков уже выполняются
var ErrIngestInProgress = fmt.Errorf("%w: загрузка расписания уже выполняется", pkgerrors.ErrConflict)

const ingestLockName = "ingest"

// DistributedLock блокировка между репликами (Redis)
type DistributedLock interface {
	AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

// Locker допускает одну операцию записи над набором расписаний за раз.
// Без DistributedLock действует только внутри процесса.
type Locker struct {
	mu     sync.Mutex
	dist   DistributedLock
	ttl    time.Duration
	logger *zap.Logger
}

// NewLocker dist может быть nil
func NewLocker(dist DistributedLock, ttl time.Duration, logger *zap.Logger) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Locker{dist: dist, ttl: ttl, logger: logger}
}

// Acquire не ждёт: занятая блокировка сразу даёт ErrIngestInProgress
func (l *Locker) Acquire(ctx context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrIngestInProgress
	}
	if l.dist == nil {
		return l.mu.Unlock, nil
	}

	owner := uuid.NewString()
	ok, err := l.dist.AcquireLock(ctx, ingestLockName, owner, l.ttl)
	if err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("распределённая блокировка: %w", err)
	}
	if !ok {
		l.mu.Unlock()
		return nil, ErrIngestInProgress
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.dist.ReleaseLock(releaseCtx, ingestLockName, owner); err != nil {
			l.logger.Warn("не удалось снять блокировку загрузки", zap.Error(err))
		}
		l.mu.Unlock()
	}, nil
}
