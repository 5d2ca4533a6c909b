package webhook

import (
	"testing"
	"time"
)

func newTestBreaker(resetTimeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold:    3,
		ResetTimeout:        resetTimeout,
		HalfOpenMaxAttempts: 1,
	})
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
		if !cb.AllowRequest() {
			t.Fatalf("breaker open after %d failures, threshold is 3", i+1)
		}
	}
	cb.RecordFailure()

	if cb.State() != BreakerOpen {
		t.Errorf("state = %v, want open", cb.State())
	}
	if cb.AllowRequest() {
		t.Error("open breaker should refuse requests")
	}
}

func TestBreakerHalfOpenAfterReset(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)

	if !cb.AllowRequest() {
		t.Fatal("breaker should allow a probe after the reset timeout")
	}
	if cb.State() != BreakerHalfOpen {
		t.Errorf("state = %v, want half_open", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != BreakerClosed {
		t.Errorf("state after probe success = %v, want closed", cb.State())
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)
	cb.AllowRequest()

	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Errorf("state after probe failure = %v, want open", cb.State())
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != BreakerClosed {
		t.Errorf("state = %v, want closed; success should reset the count", cb.State())
	}
}
