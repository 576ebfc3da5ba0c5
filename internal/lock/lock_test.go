package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

func TestKeyedMutex_SerializesSameLoan(t *testing.T) {
	m := NewKeyedMutex(5 * time.Second)
	loanID := uuid.New()

	var inCritical, maxInCritical int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLoanLock(context.Background(), loanID, func(ctx context.Context) error {
				mu.Lock()
				inCritical++
				if inCritical > maxInCritical {
					maxInCritical = inCritical
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inCritical--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestKeyedMutex_DifferentLoansDoNotContend(t *testing.T) {
	m := NewKeyedMutex(50 * time.Millisecond)

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = m.WithLoanLock(context.Background(), uuid.New(), func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	// a second loan acquires immediately even while the first is held
	err := m.WithLoanLock(context.Background(), uuid.New(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
	close(release)
}

func TestKeyedMutex_TimesOutOnContention(t *testing.T) {
	m := NewKeyedMutex(20 * time.Millisecond)
	loanID := uuid.New()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = m.WithLoanLock(context.Background(), loanID, func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	err := m.WithLoanLock(context.Background(), loanID, func(ctx context.Context) error {
		t.Error("closure must not run after a lock timeout")
		return nil
	})
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
	close(release)
}

func TestKeyedMutex_ReleasesOnClosureError(t *testing.T) {
	m := NewKeyedMutex(time.Second)
	loanID := uuid.New()

	wantErr := assert.AnError
	err := m.WithLoanLock(context.Background(), loanID, func(ctx context.Context) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	// lock must be reacquirable after the failed closure
	err = m.WithLoanLock(context.Background(), loanID, func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestKeyedMutex_RespectsContextCancellation(t *testing.T) {
	m := NewKeyedMutex(time.Minute)
	loanID := uuid.New()

	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = m.WithLoanLock(context.Background(), loanID, func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := m.WithLoanLock(ctx, loanID, func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}
