// Package streamtest provides channel helpers shared by the router tests.
package streamtest

import (
	"testing"
	"time"
)

// FromValues returns a closed channel pre-loaded with vals.
func FromValues[T any](vals ...T) <-chan T {
	ch := make(chan T, len(vals))
	for _, v := range vals {
		ch <- v
	}
	close(ch)
	return ch
}

// Collect drains ch into a slice, failing t if ch does not close within
// timeout.
func Collect[T any](t testing.TB, ch <-chan T, timeout time.Duration) []T {
	t.Helper()
	deadline := time.After(timeout)
	var out []T
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		case <-deadline:
			t.Fatalf("timed out after %v waiting for channel to close (collected %d values)", timeout, len(out))
			return out
		}
	}
}

// AwaitClosed waits for ch to close, failing t on a timeout. Values received
// before the close are discarded.
func AwaitClosed[T any](t testing.TB, ch <-chan T, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("timed out after %v waiting for channel to close", timeout)
			return
		}
	}
}
