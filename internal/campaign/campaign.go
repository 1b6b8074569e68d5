package campaign

import (
	"context"
	"time"

	"github.com/shaiso/Vitrina/internal/domain"
)

// Идентификаторы шаблонов писем у mailer'а.
const (
	TemplateCartRecovery  = "cart_recovery"
	TemplateLateOrder     = "late_order_notice"
	TemplateReviewRequest = "review_request"
)

// Target — одна сущность, подлежащая уведомлению в рамках прохода.
type Target struct {
	// Key — идентификатор сущности: email корзины или UUID заказа.
	Key string

	// Notification — готовое к отправке уведомление.
	Notification domain.Notification
}

// Campaign — одна кампания уведомлений.
//
// Scan — чистое чтение eligibility-предиката из хранилища.
// Commit — единственная idempotency-мутация кампании; вызывается
// строго после подтверждённой отправки и только для этой сущности.
type Campaign interface {
	Kind() domain.CampaignKind
	Scan(ctx context.Context, now time.Time) ([]Target, error)
	Commit(ctx context.Context, target Target) error
}

// Sender — внешний коллаборатор отправки уведомлений.
// Вёрстка и доставка писем вне зоны ответственности подсистемы.
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// SenderFunc адаптирует функцию к интерфейсу Sender.
type SenderFunc func(ctx context.Context, n domain.Notification) error

// Send вызывает f.
func (f SenderFunc) Send(ctx context.Context, n domain.Notification) error {
	return f(ctx, n)
}

// Alerter — операторский канал алертов.
type Alerter interface {
	Send(ctx context.Context, channel, text string)
}
