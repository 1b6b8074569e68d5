package domain

import (
	"testing"
	"time"
)

const lateThreshold = 5 * 24 * time.Hour

func TestOrder_IsLate(t *testing.T) {
	now := time.Now()
	paid := true
	unpaid := false

	old := now.Add(-6 * 24 * time.Hour)
	fresh := now.Add(-time.Hour)
	fulfilled := now.Add(-time.Hour)

	cases := []struct {
		name  string
		order Order
		want  bool
	}{
		{"old unfulfilled paid", Order{OrderDate: old, Paid: &paid}, true},
		{"old unfulfilled unknown payment", Order{OrderDate: old}, true},
		{"old unfulfilled unpaid", Order{OrderDate: old, Paid: &unpaid}, false},
		{"old fulfilled", Order{OrderDate: old, DateFulfilled: &fulfilled, Paid: &paid}, false},
		{"old already notified", Order{OrderDate: old, LateNoticeSent: true, Paid: &paid}, false},
		{"fresh", Order{OrderDate: fresh, Paid: &paid}, false},
	}

	for _, tc := range cases {
		if got := tc.order.IsLate(now, lateThreshold); got != tc.want {
			t.Errorf("%s: IsLate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOrder_IsLate_ExactThreshold(t *testing.T) {
	now := time.Now()

	// Ровно на границе заказ ещё не считается задержавшимся.
	o := Order{OrderDate: now.Add(-lateThreshold)}
	if o.IsLate(now, lateThreshold) {
		t.Error("order exactly at threshold should not be late")
	}
}

func TestOrder_NeedsReviewRequest(t *testing.T) {
	now := time.Now()
	delay := 24 * time.Hour

	longAgo := now.Add(-48 * time.Hour)
	justNow := now.Add(-time.Hour)

	cases := []struct {
		name  string
		order Order
		want  bool
	}{
		{"delivered long ago", Order{DateDelivered: &longAgo}, true},
		{"delivered recently", Order{DateDelivered: &justNow}, false},
		{"not delivered", Order{}, false},
		{"already requested", Order{DateDelivered: &longAgo, ReviewEmailSent: true}, false},
		// Отзыв покупателя на выборку не влияет — фильтр только по письму.
		{"review submitted without email", Order{DateDelivered: &longAgo, ReviewSubmitted: true}, true},
	}

	for _, tc := range cases {
		if got := tc.order.NeedsReviewRequest(now, delay); got != tc.want {
			t.Errorf("%s: NeedsReviewRequest = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAbandonedCart_IsIdle(t *testing.T) {
	now := time.Now()
	idle := 24 * time.Hour

	c := AbandonedCart{LastTouchedAt: now.Add(-30 * time.Hour)}
	if !c.IsIdle(now, idle) {
		t.Error("cart untouched for 30h should be idle")
	}

	c = AbandonedCart{LastTouchedAt: now.Add(-time.Hour)}
	if c.IsIdle(now, idle) {
		t.Error("cart touched 1h ago should not be idle")
	}
}

func TestParseCampaignKind(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, ok := ParseCampaignKind(kind.String())
		if !ok || parsed != kind {
			t.Errorf("ParseCampaignKind(%q) = %v, %v", kind.String(), parsed, ok)
		}
	}

	if _, ok := ParseCampaignKind("flash_sale"); ok {
		t.Error("expected unknown kind to be rejected")
	}
}
