package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Vitrina/internal/domain"
)

// defaultLateAfter — порог задержки заказа по умолчанию.
const defaultLateAfter = 5 * 24 * time.Hour

// OrderStore — хранилище заказов.
// Используется кампаниями late_order и review_request.
type OrderStore interface {
	ListLate(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	ListAwaitingReview(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	MarkLateNoticeSent(ctx context.Context, id uuid.UUID) error
	MarkReviewRequestSent(ctx context.Context, id uuid.UUID) error
}

// LateOrderCampaign — уведомление о задержке заказа.
//
// Idempotency-флаг — late_notice_sent; выставляется без compare-and-set,
// поэтому при нескольких экземплярах notifier'а возможна повторная
// отправка (осознанный компромисс, см. DESIGN.md).
type LateOrderCampaign struct {
	orders    OrderStore
	lateAfter time.Duration
}

// NewLateOrder создаёт кампанию задержавшихся заказов.
// lateAfter <= 0 означает порог по умолчанию (5 суток).
func NewLateOrder(orders OrderStore, lateAfter time.Duration) *LateOrderCampaign {
	if lateAfter <= 0 {
		lateAfter = defaultLateAfter
	}
	return &LateOrderCampaign{orders: orders, lateAfter: lateAfter}
}

// Kind возвращает тип кампании.
func (c *LateOrderCampaign) Kind() domain.CampaignKind {
	return domain.CampaignLateOrder
}

// Scan выбирает неотгруженные заказы старше порога.
func (c *LateOrderCampaign) Scan(ctx context.Context, now time.Time) ([]Target, error) {
	orders, err := c.orders.ListLate(ctx, now.Add(-c.lateAfter))
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		targets = append(targets, Target{
			Key: o.ID.String(),
			Notification: domain.Notification{
				Campaign:   domain.CampaignLateOrder,
				TemplateID: TemplateLateOrder,
				Recipient:  o.Contact,
				Payload: map[string]any{
					"order_id":     o.ID.String(),
					"order_date":   o.OrderDate,
					"days_waiting": int(now.Sub(o.OrderDate).Hours() / 24),
				},
			},
		})
	}
	return targets, nil
}

// Commit выставляет late_notice_sent после подтверждённой отправки.
func (c *LateOrderCampaign) Commit(ctx context.Context, target Target) error {
	id, err := uuid.Parse(target.Key)
	if err != nil {
		return fmt.Errorf("parse order id %q: %w", target.Key, err)
	}
	return c.orders.MarkLateNoticeSent(ctx, id)
}
