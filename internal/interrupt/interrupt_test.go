package interrupt

import (
	"sync"
	"testing"
)

func TestFlagZeroValueUnset(t *testing.T) {
	var f Flag
	if f.IsSet() {
		t.Error("zero-value flag reports set")
	}
}

func TestFlagSetIsIdempotent(t *testing.T) {
	var f Flag

	f.Set()
	f.Set()

	if !f.IsSet() {
		t.Error("flag not set after Set")
	}
}

func TestFlagConcurrentSet(t *testing.T) {
	var (
		f  Flag
		wg sync.WaitGroup
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			f.Set()
		}()
	}

	wg.Wait()

	if !f.IsSet() {
		t.Error("flag not set after concurrent Set calls")
	}
}
