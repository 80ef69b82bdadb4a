// Package retry wraps flaky actions in a bounded, backing-off retry
// policy. Failures are logged and swallowed; the caller learns only
// whether the action eventually succeeded.
package retry

import (
	"log"
	"time"
)

// Policy is a reusable retry configuration, independent of the action it
// wraps.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Label    string
}

// Do runs fn until it succeeds or attempts are exhausted, sleeping
// Delay*attempt between tries (linear backoff). Returns whether fn ever
// succeeded.
func (p Policy) Do(fn func() error) bool {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return true
		}
		log.Printf("Attempt %d failed for %s: %v", attempt, p.Label, err)
		if attempt < attempts {
			time.Sleep(p.Delay * time.Duration(attempt))
		}
	}
	return false
}
