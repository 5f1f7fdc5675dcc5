package largedir

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartReporterTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var counter atomic.Uint64
	counter.Store(42)

	got := make(chan uint64, 16)

	StartReporter(ctx, 5*time.Millisecond, counter.Load, func(visited uint64) {
		select {
		case got <- visited:
		default:
		}
	})

	select {
	case visited := <-got:
		if visited != 42 {
			t.Errorf("reported %d, want 42", visited)
		}
	case <-time.After(time.Second):
		t.Fatal("reporter never ticked")
	}
}

func TestStartReporterDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 1)
	hook := func(uint64) {
		select {
		case called <- struct{}{}:
		default:
		}
	}

	// Zero interval disables reporting entirely.
	StartReporter(ctx, 0, func() uint64 { return 0 }, hook)
	// So does a nil hook.
	StartReporter(ctx, time.Millisecond, func() uint64 { return 0 }, nil)

	select {
	case <-called:
		t.Fatal("disabled reporter invoked the hook")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestStartReporterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int64

	StartReporter(ctx, time.Millisecond, func() uint64 { return 0 }, func(uint64) {
		calls.Add(1)
	})

	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	after := calls.Load()

	time.Sleep(20 * time.Millisecond)

	if calls.Load() != after {
		t.Error("reporter kept ticking after cancellation")
	}
}
