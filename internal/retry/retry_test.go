package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("permanent")
	calls := 0

	err := Do(context.Background(), Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		calls++
		return sentinel
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel error, got %v", err)
	}
}

func TestDo_ZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Policy{}, func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_ContextCancelDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, Policy{MaxAttempts: 3, Delay: Fixed(time.Hour)}, func(ctx context.Context) error {
			calls++
			return errors.New("fail")
		})
	}()

	// Даём первой попытке провалиться и уйти в ожидание.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after context cancel")
	}

	if calls != 1 {
		t.Errorf("expected 1 call before cancel, got %d", calls)
	}
}

func TestLinear(t *testing.T) {
	delay := Linear(3 * time.Second)

	if d := delay(1); d != 3*time.Second {
		t.Errorf("attempt 1: expected 3s, got %s", d)
	}
	if d := delay(2); d != 6*time.Second {
		t.Errorf("attempt 2: expected 6s, got %s", d)
	}
	if d := delay(3); d != 9*time.Second {
		t.Errorf("attempt 3: expected 9s, got %s", d)
	}
}

func TestFixed(t *testing.T) {
	delay := Fixed(5 * time.Second)

	for attempt := 1; attempt <= 3; attempt++ {
		if d := delay(attempt); d != 5*time.Second {
			t.Errorf("attempt %d: expected 5s, got %s", attempt, d)
		}
	}
}
