package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Vitrina/internal/domain"
)

// defaultReviewDelay — пауза после доставки перед просьбой об отзыве.
const defaultReviewDelay = 24 * time.Hour

// ReviewRequestCampaign — просьба оставить отзыв после доставки.
//
// Подсистема выставляет только review_email_sent. Поле review_submitted
// пишет внешний endpoint приёма отзывов: форма отзыва видна покупателю
// при review_email_sent = true и review_submitted = false.
type ReviewRequestCampaign struct {
	orders OrderStore
	delay  time.Duration
}

// NewReviewRequest создаёт кампанию просьб об отзыве.
// delay <= 0 означает паузу по умолчанию (24 часа).
func NewReviewRequest(orders OrderStore, delay time.Duration) *ReviewRequestCampaign {
	if delay <= 0 {
		delay = defaultReviewDelay
	}
	return &ReviewRequestCampaign{orders: orders, delay: delay}
}

// Kind возвращает тип кампании.
func (c *ReviewRequestCampaign) Kind() domain.CampaignKind {
	return domain.CampaignReviewRequest
}

// Scan выбирает доставленные заказы, отлежавшиеся дольше паузы.
func (c *ReviewRequestCampaign) Scan(ctx context.Context, now time.Time) ([]Target, error) {
	orders, err := c.orders.ListAwaitingReview(ctx, now.Add(-c.delay))
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		targets = append(targets, Target{
			Key: o.ID.String(),
			Notification: domain.Notification{
				Campaign:   domain.CampaignReviewRequest,
				TemplateID: TemplateReviewRequest,
				Recipient:  o.Contact,
				Payload: map[string]any{
					"order_id":     o.ID.String(),
					"delivered_at": o.DateDelivered,
				},
			},
		})
	}
	return targets, nil
}

// Commit выставляет review_email_sent после подтверждённой отправки.
func (c *ReviewRequestCampaign) Commit(ctx context.Context, target Target) error {
	id, err := uuid.Parse(target.Key)
	if err != nil {
		return fmt.Errorf("parse order id %q: %w", target.Key, err)
	}
	return c.orders.MarkReviewRequestSent(ctx, id)
}
