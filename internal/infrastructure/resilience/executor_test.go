package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2.0,
		RetryJitter:         0,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	exec := NewExecutor(fastConfig())

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})

	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteStopsOnNonRetryableError(t *testing.T) {
	exec := NewExecutor(fastConfig())

	permanent := errors.New("bad request")
	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return permanent
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("Execute() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestExecuteReturnsLastErrorAfterExhaustion(t *testing.T) {
	exec := NewExecutor(fastConfig())

	transient := errors.New("still down")
	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return transient
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})

	if !errors.Is(err, transient) {
		t.Fatalf("Execute() error = %v, want %v", err, transient)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    5,
		RetryInitialBackoff: time.Hour,
		RetryMaxBackoff:     time.Hour,
		RetryMultiplier:     2.0,
		BreakerEnabled:      false,
	})

	ctx, cancel := context.WithCancel(context.Background())
	transient := errors.New("slow upstream")
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := exec.Execute(ctx, "op", func(context.Context) error {
		return transient
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})

	if !errors.Is(err, transient) {
		t.Fatalf("Execute() error = %v, want attempt error on cancellation", err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.RetryMaxAttempts = 1
	cfg.BreakerMinRequests = 3
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	exec := NewExecutor(cfg)

	failing := func(context.Context) error { return errors.New("boom") }
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}

	for i := 0; i < 3; i++ {
		_ = exec.Execute(context.Background(), "op", failing, classifier)
	}

	err := exec.Execute(context.Background(), "op", failing, classifier)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestBreakerIgnoresNonRecordedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.RetryMaxAttempts = 1
	cfg.BreakerMinRequests = 3
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	exec := NewExecutor(cfg)

	failing := func(context.Context) error { return errors.New("caller mistake") }
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	}

	for i := 0; i < 10; i++ {
		_ = exec.Execute(context.Background(), "op", failing, classifier)
	}

	err := exec.Execute(context.Background(), "op", failing, classifier)
	if IsCircuitOpen(err) {
		t.Fatalf("circuit must stay closed for non-recorded failures")
	}
}

func TestJitteredStaysWithinSpread(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryInitialBackoff = 100 * time.Millisecond
	cfg.RetryMaxBackoff = time.Second
	cfg.RetryJitter = 0.5
	exec := NewExecutor(cfg)

	base := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		wait := exec.jittered(base)
		if wait < base || wait > base+base/2 {
			t.Fatalf("jittered(%v) = %v, outside [base, base*1.5]", base, wait)
		}
	}
}
