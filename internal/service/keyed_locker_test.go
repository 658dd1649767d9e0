package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"doctor-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalLocker(newTestLogger(), time.Second)
	defer locker.Stop()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "schedule:doctor:saturday")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	locker := NewLocalLocker(newTestLogger(), 100*time.Millisecond)
	defer locker.Stop()

	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_Timeout(t *testing.T) {
	locker := NewLocalLocker(newTestLogger(), 30*time.Millisecond)
	defer locker.Stop()

	unlock, err := locker.Lock(context.Background(), "busy")
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "busy")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.True(t, apperror.IsRetryable(err))

	unlock()
	unlock() // second call is a no-op

	unlock, err = locker.Lock(context.Background(), "busy")
	require.NoError(t, err)
	unlock()
}

func TestLocalLocker_ContextCanceled(t *testing.T) {
	locker := NewLocalLocker(newTestLogger(), 0)
	defer locker.Stop()

	unlock, err := locker.Lock(context.Background(), "busy")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "busy")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalLocker_CleanupStale(t *testing.T) {
	locker := NewLocalLocker(newTestLogger(), time.Second)
	defer locker.Stop()

	unlock, err := locker.Lock(context.Background(), "held")
	require.NoError(t, err)
	idle, err := locker.Lock(context.Background(), "idle")
	require.NoError(t, err)
	idle()

	cleaned := locker.cleanupStale(time.Now().Add(time.Hour))
	assert.Equal(t, 1, cleaned)

	_, held := locker.locks.Load("held")
	assert.True(t, held)
	unlock()

	// the key is usable after its entry was dropped
	again, err := locker.Lock(context.Background(), "idle")
	require.NoError(t, err)
	again()
}
