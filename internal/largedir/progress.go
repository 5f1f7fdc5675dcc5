package largedir

import (
	"context"
	"time"
)

// StartReporter invokes hook with the current visited-directory count
// on each tick until ctx is done. It reads the atomic counter only and
// holds no lock the walker needs; the goroutine is simply abandoned
// when ctx is canceled or the process exits.
//
// A nil hook or non-positive interval disables reporting.
func StartReporter(ctx context.Context, interval time.Duration, visited func() uint64, hook func(uint64)) {
	if hook == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(visited())
			case <-ctx.Done():
				return
			}
		}
	}()
}
