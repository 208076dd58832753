package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Do(context.Background(), func() error {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestPool_ReturnsJobError(t *testing.T) {
	pool := NewPool(1)
	want := errors.New("job failed")

	err := pool.Do(context.Background(), func() error { return want })
	assert.ErrorIs(t, err, want)
}

func TestPool_CancelledWhileWaiting(t *testing.T) {
	pool := NewPool(1)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = pool.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ran := false
	err := pool.Do(ctx, func() error {
		ran = true
		return nil
	})
	close(release)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}
