package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, 2, l.Available())
	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.ActiveCount())
	assert.Equal(t, 0, l.Available())

	l.Release()
	assert.Equal(t, UploadLimiterStatus{Active: 1, Available: 1, MaxConcurrent: 2}, l.Status())
	l.Release()
	assert.Equal(t, 0, l.ActiveCount())
}

func TestUploadLimiter_Defaults(t *testing.T) {
	l := NewUploadLimiter(0, 0)
	assert.Equal(t, DefaultMaxConcurrentUploads, l.MaxConcurrent())
	assert.Equal(t, DefaultMaxWaitTime, l.maxWait)
}

func TestUploadLimiter_TimesOutWhenFull(t *testing.T) {
	l := NewUploadLimiter(1, 50*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, l.Acquire(ctx))
	defer l.Release()

	start := time.Now()
	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, ErrTooManyUploads)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestUploadLimiter_ContextCancellation(t *testing.T) {
	l := NewUploadLimiter(1, 5*time.Second)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestUploadLimiter_TryAcquire(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)

	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
	l.Release()
	assert.True(t, l.TryAcquire())
	l.Release()
}

func TestUploadLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	l := NewUploadLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
			l.Release()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, int(peak.Load()), maxConcurrent)
	assert.Equal(t, 0, l.ActiveCount())
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)
	require.NoError(t, l.WaitForDrain(context.Background()))

	require.NoError(t, l.Acquire(context.Background()))

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.WaitForDrain(short), context.DeadlineExceeded)

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Release()
	}()
	assert.NoError(t, l.WaitForDrain(context.Background()))
}

func TestUploadLimiter_WaitForDrainCoversWaiters(t *testing.T) {
	l := NewUploadLimiter(1, 5*time.Second)
	require.NoError(t, l.Acquire(context.Background()))

	acquired := make(chan struct{})
	releaseSecond := make(chan struct{})
	go func() {
		if err := l.Acquire(context.Background()); err != nil {
			t.Errorf("Acquire: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		<-releaseSecond
		l.Release()
	}()
	require.Eventually(t, func() bool { return l.pending() == 2 }, time.Second, time.Millisecond)

	// The waiting caller keeps the limiter busy before it holds a slot.
	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.WaitForDrain(short), context.DeadlineExceeded)

	l.Release()
	<-acquired
	assert.Equal(t, 1, l.ActiveCount())

	short2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	assert.ErrorIs(t, l.WaitForDrain(short2), context.DeadlineExceeded)

	close(releaseSecond)
	assert.NoError(t, l.WaitForDrain(context.Background()))
	assert.Equal(t, 0, l.pending())
}

func TestUploadLimiter_FailedAcquireLeavesIdle(t *testing.T) {
	l := NewUploadLimiter(1, 10*time.Millisecond)
	require.NoError(t, l.Acquire(context.Background()))

	assert.ErrorIs(t, l.Acquire(context.Background()), ErrTooManyUploads)
	assert.False(t, l.TryAcquire())
	assert.Equal(t, 1, l.pending())

	l.Release()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, l.WaitForDrain(ctx))
}
