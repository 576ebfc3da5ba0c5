package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

// Manager serializes read-compute-write sequences on a single loan. The loan
// is the unit of mutual exclusion; different loans never contend.
//
// WithLoanLock acquires an exclusive lease on the loan, runs fn, and releases
// the lease on every exit path. Acquisition waits at most the configured
// timeout and then fails with ErrLockTimeout; the caller reports that as the
// loan's outcome instead of retrying.
type Manager interface {
	WithLoanLock(ctx context.Context, loanID uuid.UUID, fn func(ctx context.Context) error) error
}

// KeyedMutex is an in-process Manager for single-instance deployments.
type KeyedMutex struct {
	mu          sync.Mutex
	waitTimeout time.Duration
	locks       map[uuid.UUID]*keyLock
}

type keyLock struct {
	ch   chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

func NewKeyedMutex(waitTimeout time.Duration) *KeyedMutex {
	return &KeyedMutex{
		waitTimeout: waitTimeout,
		locks:       make(map[uuid.UUID]*keyLock),
	}
}

func (m *KeyedMutex) WithLoanLock(ctx context.Context, loanID uuid.UUID, fn func(ctx context.Context) error) error {
	kl := m.acquireEntry(loanID)
	defer m.releaseEntry(loanID)

	timer := time.NewTimer(m.waitTimeout)
	defer timer.Stop()

	select {
	case kl.ch <- struct{}{}:
	case <-timer.C:
		return apperrors.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-kl.ch }()

	return fn(ctx)
}

func (m *KeyedMutex) acquireEntry(loanID uuid.UUID) *keyLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	kl, ok := m.locks[loanID]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[loanID] = kl
	}
	kl.refs++
	return kl
}

func (m *KeyedMutex) releaseEntry(loanID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kl := m.locks[loanID]
	kl.refs--
	if kl.refs == 0 {
		delete(m.locks, loanID)
	}
}
