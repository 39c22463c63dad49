package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func TestPool_RunsTasks(t *testing.T) {
	p := NewPool(2, 4, zap.NewNop())

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		ok := p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		})
		if !ok {
			t.Fatal("expected Submit to succeed on a running pool")
		}
	}
	wg.Wait()
	p.Stop()

	if got := count.Load(); got != 10 {
		t.Errorf("expected 10 executed tasks, got %d", got)
	}
}

func TestPool_StopDrainsQueue(t *testing.T) {
	// One worker, so queued tasks are still pending when Stop is called.
	p := NewPool(1, 8, zap.NewNop())

	var count atomic.Int64
	for i := 0; i < 5; i++ {
		p.Submit(func() { count.Add(1) })
	}
	p.Stop()

	if got := count.Load(); got != 5 {
		t.Errorf("expected all queued tasks to finish before Stop returns, got %d", got)
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1, zap.NewNop())
	p.Stop()

	if ok := p.Submit(func() {}); ok {
		t.Error("expected Submit to report false after Stop")
	}
}

func TestPool_StopTwice(t *testing.T) {
	p := NewPool(1, 1, zap.NewNop())
	p.Stop()
	p.Stop() // must not panic on double close
}

func TestPool_RecoversPanics(t *testing.T) {
	p := NewPool(1, 2, zap.NewNop())

	var ran atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { ran.Store(true) })
	p.Stop()

	if !ran.Load() {
		t.Error("expected worker to survive a panicking task")
	}
}
