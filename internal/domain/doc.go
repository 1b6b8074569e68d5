// Package domain содержит основные сущности подсистемы уведомлений.
//
// Сущности:
//   - Order         — заказ магазина (владелец записи — основной бэкенд)
//   - AbandonedCart — брошенная корзина покупателя
//   - Notification  — сообщение для отправки покупателю
//   - SweepReport   — итог одного прохода кампании
//
// Подсистема уведомлений читает из заказов и корзин только предикаты
// eligibility и пишет только свой idempotency-флаг (или удаляет строку
// корзины). Остальные поля принадлежат внешним сервисам магазина.
package domain
