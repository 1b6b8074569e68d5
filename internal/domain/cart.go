package domain

import (
	"encoding/json"
	"time"
)

// AbandonedCart — брошенная корзина покупателя.
//
// Строка создаётся/обновляется при каждом сохранении корзины (внешний
// сервис магазина) и удаляется либо кампанией после успешной отправки
// письма-напоминания, либо при оформлении заказа покупателем.
//
// Инвариант: существование строки означает, что для текущего состояния
// корзины (с момента LastTouchedAt) письмо-напоминание ещё не уходило.
type AbandonedCart struct {
	// CustomerEmail — email покупателя, уникальный ключ записи.
	CustomerEmail string `json:"customer_email"`

	// Snapshot — содержимое корзины на момент последнего сохранения.
	Snapshot json.RawMessage `json:"cart_snapshot,omitempty"`

	// LastTouchedAt — время последнего изменения корзины.
	LastTouchedAt time.Time `json:"last_touched_at"`
}

// IsIdle проверяет, простаивает ли корзина дольше idle.
func (c *AbandonedCart) IsIdle(now time.Time, idle time.Duration) bool {
	return now.Sub(c.LastTouchedAt) > idle
}
