package campaign

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shaiso/Vitrina/internal/domain"
)

// defaultCartIdle — порог простоя корзины по умолчанию.
const defaultCartIdle = 24 * time.Hour

// CartStore — хранилище брошенных корзин.
type CartStore interface {
	ListIdle(ctx context.Context, cutoff time.Time) ([]domain.AbandonedCart, error)
	Delete(ctx context.Context, email string) error
}

// AbandonedCartCampaign — напоминание о брошенной корзине.
//
// Idempotency-ключ — само существование строки: после успешной
// отправки строка удаляется, и до следующего сохранения корзины
// покупатель повторно не выбирается.
type AbandonedCartCampaign struct {
	carts CartStore
	idle  time.Duration
}

// NewAbandonedCart создаёт кампанию брошенных корзин.
// idle <= 0 означает порог по умолчанию (24 часа).
func NewAbandonedCart(carts CartStore, idle time.Duration) *AbandonedCartCampaign {
	if idle <= 0 {
		idle = defaultCartIdle
	}
	return &AbandonedCartCampaign{carts: carts, idle: idle}
}

// Kind возвращает тип кампании.
func (c *AbandonedCartCampaign) Kind() domain.CampaignKind {
	return domain.CampaignAbandonedCart
}

// Scan выбирает корзины, простаивающие дольше порога.
func (c *AbandonedCartCampaign) Scan(ctx context.Context, now time.Time) ([]Target, error) {
	carts, err := c.carts.ListIdle(ctx, now.Add(-c.idle))
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(carts))
	for i := range carts {
		cart := &carts[i]
		targets = append(targets, Target{
			Key: cart.CustomerEmail,
			Notification: domain.Notification{
				Campaign:   domain.CampaignAbandonedCart,
				TemplateID: TemplateCartRecovery,
				Recipient:  cart.CustomerEmail,
				Payload: map[string]any{
					"items":      json.RawMessage(cart.Snapshot),
					"idle_since": cart.LastTouchedAt,
				},
			},
		})
	}
	return targets, nil
}

// Commit удаляет строку корзины после подтверждённой отправки.
func (c *AbandonedCartCampaign) Commit(ctx context.Context, target Target) error {
	return c.carts.Delete(ctx, target.Key)
}
