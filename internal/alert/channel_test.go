package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Vitrina/internal/ratelimit"
	"github.com/shaiso/Vitrina/internal/retry"
)

// fakePoster считает вызовы Post и проваливает первые failFirst из них.
type fakePoster struct {
	mu        sync.Mutex
	calls     int
	failFirst int
	delivered []string
}

func (p *fakePoster) Post(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.calls <= p.failFirst {
		return errors.New("post failed")
	}
	p.delivered = append(p.delivered, text)
	return nil
}

func (p *fakePoster) deliveredCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.delivered)
}

func newTestChannel(poster Poster, limit int) *Channel {
	return NewChannel(Config{
		Counter: ratelimit.NewCounter(time.Minute),
		Poster:  poster,
		Limit:   limit,
		Policy:  retry.Policy{MaxAttempts: 3},
	})
}

func TestChannel_Send(t *testing.T) {
	poster := &fakePoster{}
	ch := newTestChannel(poster, 5)

	ch.Send(context.Background(), "ops", "db down")

	if poster.deliveredCount() != 1 {
		t.Errorf("expected 1 delivered alert, got %d", poster.deliveredCount())
	}
	if poster.delivered[0] != "db down" {
		t.Errorf("unexpected alert text: %q", poster.delivered[0])
	}
}

func TestChannel_SuppressesOverLimit(t *testing.T) {
	poster := &fakePoster{}
	ch := newTestChannel(poster, 5)

	// 10 алертов подряд в одно окно: доставляются первые 5.
	for i := 0; i < 10; i++ {
		ch.Send(context.Background(), "ops", "boom")
	}

	if poster.deliveredCount() != 5 {
		t.Errorf("expected 5 delivered alerts, got %d", poster.deliveredCount())
	}
	// Подавленные вызовы до Poster не доходят вовсе.
	if poster.calls != 5 {
		t.Errorf("expected 5 post calls, got %d", poster.calls)
	}
}

func TestChannel_RetriesThenDelivers(t *testing.T) {
	poster := &fakePoster{failFirst: 2}
	ch := newTestChannel(poster, 5)

	ch.Send(context.Background(), "ops", "flaky")

	if poster.calls != 3 {
		t.Errorf("expected 3 post attempts, got %d", poster.calls)
	}
	if poster.deliveredCount() != 1 {
		t.Errorf("expected alert delivered on third attempt, got %d", poster.deliveredCount())
	}
}

func TestChannel_DropsAfterExhaustedRetries(t *testing.T) {
	poster := &fakePoster{failFirst: 100}
	ch := newTestChannel(poster, 5)

	ch.Send(context.Background(), "ops", "unreachable")

	if poster.calls != 3 {
		t.Errorf("expected 3 post attempts, got %d", poster.calls)
	}
	if poster.deliveredCount() != 0 {
		t.Errorf("expected no delivered alerts, got %d", poster.deliveredCount())
	}
}

func TestChannel_DroppedAlertDoesNotConsumeLimit(t *testing.T) {
	poster := &fakePoster{failFirst: 3}
	ch := newTestChannel(poster, 1)

	// Первый алерт исчерпывает попытки и дропается — лимит не тратится.
	ch.Send(context.Background(), "ops", "first")
	// Второй должен пройти.
	ch.Send(context.Background(), "ops", "second")

	if poster.deliveredCount() != 1 {
		t.Fatalf("expected 1 delivered alert, got %d", poster.deliveredCount())
	}
	if poster.delivered[0] != "second" {
		t.Errorf("expected second alert delivered, got %q", poster.delivered[0])
	}
}

func TestChannel_IndependentChannels(t *testing.T) {
	poster := &fakePoster{}
	ch := newTestChannel(poster, 1)

	ch.Send(context.Background(), "ops", "a")
	ch.Send(context.Background(), "ops", "suppressed")
	ch.Send(context.Background(), "billing", "b")

	if poster.deliveredCount() != 2 {
		t.Errorf("expected 2 delivered alerts across channels, got %d", poster.deliveredCount())
	}
}

func TestChannel_DefaultPolicy(t *testing.T) {
	ch := NewChannel(Config{
		Counter: ratelimit.NewCounter(time.Minute),
		Poster:  &fakePoster{},
	})

	if ch.limit != 5 {
		t.Errorf("expected default limit 5, got %d", ch.limit)
	}
	if ch.policy.MaxAttempts != 3 {
		t.Errorf("expected default 3 attempts, got %d", ch.policy.MaxAttempts)
	}
	if d := ch.policy.Delay(2); d != 6*time.Second {
		t.Errorf("expected linear 3s step (attempt 2 → 6s), got %s", d)
	}
}
