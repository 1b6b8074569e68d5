// Package campaign реализует кампании уведомлений и проходы по ним.
//
// Кампании:
//   - abandoned_cart — напоминание о брошенной корзине (строка удаляется)
//   - late_order     — уведомление о задержке (late_notice_sent = true)
//   - review_request — просьба об отзыве (review_email_sent = true)
//
// Проход (sweep) — Scan → fan-out отправок → Commit для каждой успешно
// отправленной сущности. Sweeper держит потолок одновременных отправок
// и сериализует проходы одной кампании.
//
// Структура:
//   - campaign.go       — интерфейсы Campaign, Sender, Alerter, Target
//   - abandoned_cart.go — кампания брошенных корзин
//   - late_order.go     — кампания задержавшихся заказов
//   - review_request.go — кампания просьб об отзыве
//   - sweep.go          — Sweeper: fan-out и отчёты
package campaign
