// Package interrupt provides the process-wide cancellation flag shared
// by calibration and walking, and its signal wiring.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Flag is a one-way cancellation flag: it only ever transitions from
// unset to set and is polled, never used to order other memory.
// Repeated Set calls are idempotent. The zero value is ready to use.
type Flag struct {
	set atomic.Bool
}

// Set marks the flag. Safe to call from any goroutine, including
// signal handlers.
func (f *Flag) Set() {
	f.set.Store(true)
}

// IsSet reports whether the flag has been set.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Setup registers SIGINT, SIGTERM and SIGHUP and sets f on the first
// signal received. The watching goroutine is abandoned at process
// exit; there is no teardown.
func Setup(f *Flag) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for range ch {
			f.Set()
		}
	}()
}
