package retry

import (
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	ok := Policy{Attempts: 3, Delay: time.Millisecond, Label: "flaky"}.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if !ok {
		t.Fatalf("expected success on third attempt")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	ok := Policy{Attempts: 2, Delay: time.Millisecond, Label: "broken"}.Do(func() error {
		calls++
		return errors.New("boom")
	})
	if ok {
		t.Fatalf("expected exhaustion")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoDefaultsToSingleAttempt(t *testing.T) {
	calls := 0
	Policy{Label: "zero"}.Do(func() error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
