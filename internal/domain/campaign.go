package domain

import "time"

// CampaignKind — тип кампании уведомлений.
type CampaignKind string

const (
	// CampaignAbandonedCart — напоминание о брошенной корзине.
	CampaignAbandonedCart CampaignKind = "abandoned_cart"

	// CampaignLateOrder — уведомление о задержке заказа.
	CampaignLateOrder CampaignKind = "late_order"

	// CampaignReviewRequest — просьба оставить отзыв после доставки.
	CampaignReviewRequest CampaignKind = "review_request"
)

// Kinds возвращает все известные кампании.
func Kinds() []CampaignKind {
	return []CampaignKind{
		CampaignAbandonedCart,
		CampaignLateOrder,
		CampaignReviewRequest,
	}
}

// ParseCampaignKind парсит строку в CampaignKind.
// Возвращает пустой kind и false для неизвестного значения.
func ParseCampaignKind(s string) (CampaignKind, bool) {
	switch CampaignKind(s) {
	case CampaignAbandonedCart, CampaignLateOrder, CampaignReviewRequest:
		return CampaignKind(s), true
	default:
		return "", false
	}
}

// String возвращает строковое представление CampaignKind.
func (k CampaignKind) String() string {
	return string(k)
}

// Notification — сообщение для отправки покупателю.
//
// Подсистема не занимается вёрсткой и доставкой писем: Notification
// передаётся внешнему коллаборатору отправки (mailer) как есть.
type Notification struct {
	// Campaign — кампания, породившая уведомление.
	Campaign CampaignKind `json:"campaign"`

	// TemplateID — идентификатор шаблона письма у mailer'а.
	TemplateID string `json:"template_id"`

	// Recipient — адрес получателя.
	Recipient string `json:"recipient"`

	// Payload — данные для подстановки в шаблон.
	Payload map[string]any `json:"payload,omitempty"`
}

// SweepReport — итог одного прохода кампании.
//
// Счётчики нужны только для наблюдаемости; управляющая логика
// на них не опирается.
type SweepReport struct {
	// Campaign — кампания, для которой выполнялся проход.
	Campaign CampaignKind `json:"campaign"`

	// Eligible — сколько сущностей выбрал сканер.
	Eligible int `json:"eligible"`

	// Sent — сколько отправок подтверждено.
	Sent int `json:"sent"`

	// SendFailed — сколько отправок завершилось ошибкой.
	SendFailed int `json:"send_failed"`

	// Committed — сколько сущностей помечено после успешной отправки.
	Committed int `json:"committed"`

	// CommitFailed — сколько пометок не удалось (сущность будет
	// отправлена повторно на следующем проходе).
	CommitFailed int `json:"commit_failed"`

	// StartedAt — время начала прохода.
	StartedAt time.Time `json:"started_at"`

	// Duration — длительность прохода.
	Duration time.Duration `json:"duration"`
}
