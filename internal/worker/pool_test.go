package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(3)
	var ran int32

	for i := 0; i < 20; i++ {
		pool.Go(context.Background(), func(ctx context.Context) {
			atomic.AddInt32(&ran, 1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt32(&ran); got != 20 {
		t.Errorf("expected 20 tasks to run, got %d", got)
	}
}

func TestPool_BoundsParallelism(t *testing.T) {
	pool := NewPool(2)
	var current, peak int32

	for i := 0; i < 10; i++ {
		pool.Go(context.Background(), func(ctx context.Context) {
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Errorf("parallelism peaked at %d, limit was 2", got)
	}
}

func TestPool_ZeroWorkersIsSequential(t *testing.T) {
	pool := NewPool(0)
	var ran int32

	for i := 0; i < 5; i++ {
		pool.Go(context.Background(), func(ctx context.Context) {
			atomic.AddInt32(&ran, 1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt32(&ran); got != 5 {
		t.Errorf("expected 5 tasks to run, got %d", got)
	}
}

func TestPool_CancelledContextDropsTask(t *testing.T) {
	pool := NewPool(1)
	block := make(chan struct{})

	// Occupy the only slot.
	pool.Go(context.Background(), func(ctx context.Context) {
		<-block
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	done := make(chan struct{})
	go func() {
		pool.Go(ctx, func(ctx context.Context) {
			atomic.AddInt32(&ran, 1)
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go did not return for cancelled context")
	}

	close(block)
	pool.Wait()

	if atomic.LoadInt32(&ran) != 0 {
		t.Error("task ran despite cancelled context")
	}
}
