package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order — заказ магазина.
//
// Флаги LateNoticeSent и ReviewEmailSent монотонны: false → true,
// сбрасываются только при удалении заказа внешним сервисом.
// ReviewEmailSent выставляется в true только после подтверждённой
// отправки письма с просьбой об отзыве; LateNoticeSent — аналогично
// для уведомления о задержке.
type Order struct {
	// ID — уникальный идентификатор заказа.
	ID uuid.UUID `json:"id"`

	// OrderDate — дата оформления заказа.
	OrderDate time.Time `json:"order_date"`

	// DateFulfilled — дата передачи заказа в доставку.
	// nil, пока заказ не отгружен.
	DateFulfilled *time.Time `json:"date_fulfilled,omitempty"`

	// DateDelivered — дата доставки покупателю.
	// nil, пока заказ не доставлен.
	DateDelivered *time.Time `json:"date_delivered,omitempty"`

	// LateNoticeSent — уведомление о задержке уже отправлено.
	LateNoticeSent bool `json:"late_notice_sent"`

	// ReviewEmailSent — письмо с просьбой об отзыве уже отправлено.
	ReviewEmailSent bool `json:"review_email_sent"`

	// ReviewSubmitted — покупатель оставил отзыв.
	// Подсистема уведомлений это поле никогда не пишет — его выставляет
	// внешний endpoint приёма отзывов.
	ReviewSubmitted bool `json:"review_submitted"`

	// Paid — заказ оплачен. nil для заказов, оформленных до ввода поля.
	Paid *bool `json:"paid,omitempty"`

	// Contact — email покупателя для уведомлений.
	Contact string `json:"contact"`
}

// IsLate проверяет, подошёл ли заказ под уведомление о задержке:
// не отгружен, старше threshold, уведомление ещё не отправлялось,
// оплачен или оплата неизвестна.
func (o *Order) IsLate(now time.Time, threshold time.Duration) bool {
	if o.DateFulfilled != nil {
		return false
	}
	if o.LateNoticeSent {
		return false
	}
	if o.Paid != nil && !*o.Paid {
		return false
	}
	return now.Sub(o.OrderDate) > threshold
}

// NeedsReviewRequest проверяет, пора ли просить отзыв:
// заказ доставлен не менее delay назад и письмо ещё не отправлялось.
func (o *Order) NeedsReviewRequest(now time.Time, delay time.Duration) bool {
	if o.DateDelivered == nil {
		return false
	}
	if o.ReviewEmailSent {
		return false
	}
	return now.Sub(*o.DateDelivered) > delay
}
