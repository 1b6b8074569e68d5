package campaign

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Vitrina/internal/domain"
)

// fakeCartStore — in-memory хранилище корзин.
type fakeCartStore struct {
	mu    sync.Mutex
	carts map[string]domain.AbandonedCart
}

func newFakeCartStore(carts ...domain.AbandonedCart) *fakeCartStore {
	s := &fakeCartStore{carts: make(map[string]domain.AbandonedCart)}
	for _, c := range carts {
		s.carts[c.CustomerEmail] = c
	}
	return s
}

func (s *fakeCartStore) ListIdle(_ context.Context, cutoff time.Time) ([]domain.AbandonedCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.AbandonedCart
	for _, c := range s.carts {
		if !c.LastTouchedAt.After(cutoff) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCartStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, email)
	return nil
}

// fakeOrderStore — in-memory хранилище заказов.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order

	lateAfter   time.Duration
	reviewDelay time.Duration
}

func newFakeOrderStore(lateAfter, reviewDelay time.Duration, orders ...*domain.Order) *fakeOrderStore {
	s := &fakeOrderStore{
		orders:      make(map[uuid.UUID]*domain.Order),
		lateAfter:   lateAfter,
		reviewDelay: reviewDelay,
	}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) ListLate(_ context.Context, cutoff time.Time) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := cutoff.Add(s.lateAfter)
	var out []domain.Order
	for _, o := range s.orders {
		if o.IsLate(now, s.lateAfter) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListAwaitingReview(_ context.Context, cutoff time.Time) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := cutoff.Add(s.reviewDelay)
	var out []domain.Order
	for _, o := range s.orders {
		if o.NeedsReviewRequest(now, s.reviewDelay) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) MarkLateNoticeSent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.LateNoticeSent = true
	return nil
}

func (s *fakeOrderStore) MarkReviewRequestSent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.ReviewEmailSent = true
	return nil
}

func okSweeper() *Sweeper {
	return NewSweeper(Config{
		Sender: SenderFunc(func(ctx context.Context, n domain.Notification) error {
			return nil
		}),
		Alerts: &fakeAlerter{},
	})
}

// --- AbandonedCart ---

func TestAbandonedCart_SweepDeletesSentCarts(t *testing.T) {
	now := time.Now()
	store := newFakeCartStore(
		domain.AbandonedCart{CustomerEmail: "idle@example.com", LastTouchedAt: now.Add(-30 * time.Hour)},
		domain.AbandonedCart{CustomerEmail: "fresh@example.com", LastTouchedAt: now.Add(-1 * time.Hour)},
	)
	c := NewAbandonedCart(store, 24*time.Hour)

	report, err := okSweeper().Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Eligible != 1 || report.Sent != 1 || report.Committed != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if _, ok := store.carts["idle@example.com"]; ok {
		t.Error("sent cart should be deleted")
	}
	if _, ok := store.carts["fresh@example.com"]; !ok {
		t.Error("fresh cart should stay")
	}

	// Повторный проход не находит целей: отправка не повторяется.
	report, err = okSweeper().Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Eligible != 0 {
		t.Errorf("expected 0 eligible on second sweep, got %d", report.Eligible)
	}
}

func TestAbandonedCart_SendFailureKeepsCart(t *testing.T) {
	now := time.Now()
	store := newFakeCartStore(
		domain.AbandonedCart{CustomerEmail: "idle@example.com", LastTouchedAt: now.Add(-30 * time.Hour)},
	)
	c := NewAbandonedCart(store, 24*time.Hour)

	s := NewSweeper(Config{
		Sender: SenderFunc(func(ctx context.Context, n domain.Notification) error {
			return errors.New("broker down")
		}),
		Alerts: &fakeAlerter{},
	})

	report, err := s.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.SendFailed != 1 || report.Committed != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	// Корзина осталась и будет выбрана на следующем проходе.
	if _, ok := store.carts["idle@example.com"]; !ok {
		t.Error("cart must survive a failed send")
	}
}

func TestAbandonedCart_NotificationContents(t *testing.T) {
	now := time.Now()
	store := newFakeCartStore(
		domain.AbandonedCart{
			CustomerEmail: "idle@example.com",
			Snapshot:      []byte(`[{"sku":"A-1","qty":2}]`),
			LastTouchedAt: now.Add(-48 * time.Hour),
		},
	)
	c := NewAbandonedCart(store, 24*time.Hour)

	targets, err := c.Scan(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(targets))
	}

	n := targets[0].Notification
	if n.Campaign != domain.CampaignAbandonedCart {
		t.Errorf("unexpected campaign: %s", n.Campaign)
	}
	if n.TemplateID != TemplateCartRecovery {
		t.Errorf("unexpected template: %s", n.TemplateID)
	}
	if n.Recipient != "idle@example.com" {
		t.Errorf("unexpected recipient: %s", n.Recipient)
	}
	if _, ok := n.Payload["items"]; !ok {
		t.Error("payload should carry cart items")
	}
}

// --- LateOrder ---

func TestLateOrder_SweepFlagsSentOrders(t *testing.T) {
	now := time.Now()
	paid := true
	unpaid := false

	late := &domain.Order{ID: uuid.New(), OrderDate: now.Add(-6 * 24 * time.Hour), Paid: &paid, Contact: "late@example.com"}
	legacy := &domain.Order{ID: uuid.New(), OrderDate: now.Add(-7 * 24 * time.Hour), Contact: "legacy@example.com"}
	notPaid := &domain.Order{ID: uuid.New(), OrderDate: now.Add(-8 * 24 * time.Hour), Paid: &unpaid, Contact: "unpaid@example.com"}
	fresh := &domain.Order{ID: uuid.New(), OrderDate: now.Add(-time.Hour), Paid: &paid, Contact: "fresh@example.com"}

	fulfilledAt := now.Add(-time.Hour)
	shipped := &domain.Order{ID: uuid.New(), OrderDate: now.Add(-10 * 24 * time.Hour), DateFulfilled: &fulfilledAt, Paid: &paid, Contact: "shipped@example.com"}

	store := newFakeOrderStore(5*24*time.Hour, 24*time.Hour, late, legacy, notPaid, fresh, shipped)
	c := NewLateOrder(store, 5*24*time.Hour)

	report, err := okSweeper().Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Подходят только late и legacy (Paid == nil трактуется как оплаченный).
	if report.Eligible != 2 || report.Committed != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
	if !late.LateNoticeSent || !legacy.LateNoticeSent {
		t.Error("eligible orders should be flagged")
	}
	if notPaid.LateNoticeSent || fresh.LateNoticeSent || shipped.LateNoticeSent {
		t.Error("ineligible orders must not be flagged")
	}

	// Повторный проход не выбирает уже помеченные заказы.
	report, err = okSweeper().Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Eligible != 0 {
		t.Errorf("expected 0 eligible on second sweep, got %d", report.Eligible)
	}
}

func TestLateOrder_CommitRejectsBadKey(t *testing.T) {
	store := newFakeOrderStore(5*24*time.Hour, 24*time.Hour)
	c := NewLateOrder(store, 0)

	if err := c.Commit(context.Background(), Target{Key: "not-a-uuid"}); err == nil {
		t.Error("expected error for malformed order id")
	}
}

// --- ReviewRequest ---

func TestReviewRequest_SweepFlagsSentOrders(t *testing.T) {
	now := time.Now()

	deliveredLongAgo := now.Add(-48 * time.Hour)
	deliveredJustNow := now.Add(-time.Hour)

	due := &domain.Order{ID: uuid.New(), DateDelivered: &deliveredLongAgo, Contact: "due@example.com"}
	early := &domain.Order{ID: uuid.New(), DateDelivered: &deliveredJustNow, Contact: "early@example.com"}
	alreadySent := &domain.Order{ID: uuid.New(), DateDelivered: &deliveredLongAgo, ReviewEmailSent: true, Contact: "sent@example.com"}
	undelivered := &domain.Order{ID: uuid.New(), OrderDate: now.Add(-72 * time.Hour), Contact: "transit@example.com"}

	store := newFakeOrderStore(5*24*time.Hour, 24*time.Hour, due, early, alreadySent, undelivered)
	c := NewReviewRequest(store, 24*time.Hour)

	report, err := okSweeper().Run(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Eligible != 1 || report.Committed != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if !due.ReviewEmailSent {
		t.Error("due order should be flagged")
	}
	if early.ReviewEmailSent || undelivered.ReviewEmailSent {
		t.Error("ineligible orders must not be flagged")
	}
}

func TestReviewRequest_NotificationContents(t *testing.T) {
	now := time.Now()
	delivered := now.Add(-48 * time.Hour)
	o := &domain.Order{ID: uuid.New(), DateDelivered: &delivered, Contact: "due@example.com"}

	store := newFakeOrderStore(5*24*time.Hour, 24*time.Hour, o)
	c := NewReviewRequest(store, 24*time.Hour)

	targets, err := c.Scan(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(targets))
	}

	n := targets[0].Notification
	if n.TemplateID != TemplateReviewRequest {
		t.Errorf("unexpected template: %s", n.TemplateID)
	}
	if n.Payload["order_id"] != o.ID.String() {
		t.Errorf("unexpected order_id in payload: %v", n.Payload["order_id"])
	}
}
