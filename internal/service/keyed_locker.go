package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"doctor-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
)

// ErrLockTimeout is returned when a key stays held past the wait budget.
var ErrLockTimeout = apperror.New(apperror.KindTransient, "resource is busy, please retry")

// KeyedLocker serializes critical sections per key. The returned unlock func
// is safe to call more than once.
type KeyedLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

const (
	// Interval for cleaning up stale locks
	lockCleanupInterval = 10 * time.Minute

	// How long a lock must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute
)

// lockEntry is a context-aware mutex: holding the lock means owning the
// single buffer slot of sem.
type lockEntry struct {
	sem      chan struct{}
	lastUsed atomic.Int64 // Unix timestamp
}

// LocalLocker is an in-process KeyedLocker. A background goroutine drops
// entries unused for lockStaleThreshold; call Stop during shutdown.
type LocalLocker struct {
	log  *logrus.Logger
	wait time.Duration

	locks sync.Map // map[string]*lockEntry

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewLocalLocker creates a LocalLocker. wait bounds how long Lock blocks;
// zero means only ctx bounds it.
func NewLocalLocker(log *logrus.Logger, wait time.Duration) *LocalLocker {
	l := &LocalLocker{
		log:      log,
		wait:     wait,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *LocalLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalLocker stopped")
	}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	for {
		e := l.entry(key)

		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrLockTimeout
			}
			return nil, ctx.Err()
		}

		// cleanup may have dropped e while we were waiting on it
		if current, ok := l.locks.Load(key); ok && current == e {
			var once sync.Once
			return func() {
				once.Do(func() {
					e.lastUsed.Store(time.Now().Unix())
					<-e.sem
				})
			}, nil
		}
		<-e.sem
	}
}

func (l *LocalLocker) entry(key string) *lockEntry {
	e, _ := l.locks.LoadOrStore(key, &lockEntry{sem: make(chan struct{}, 1)})
	result := e.(*lockEntry)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *LocalLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Lock cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-lockStaleThreshold))
		}
	}
}

// cleanupStale removes entries last used before cutoff. An entry is only
// deleted while its slot is held, so a waiter can detect the removal.
func (l *LocalLocker) cleanupStale(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	l.locks.Range(func(key, value any) bool {
		e, ok := value.(*lockEntry)
		if !ok {
			return true
		}

		select {
		case e.sem <- struct{}{}:
			if e.lastUsed.Load() < cutoffUnix {
				l.locks.Delete(key)
				cleaned++
			}
			<-e.sem
		default:
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale locks", cleaned)
	}
	return cleaned
}
