// Package repo реализует доступ к персистентному хранилищу магазина.
//
// Подсистема уведомлений не владеет таблицами orders и abandoned_carts —
// они создаются и наполняются основным бэкендом магазина. Здесь только:
//   - выборки по предикатам eligibility (чистое чтение)
//   - точечные idempotency-мутации (флаг заказа, удаление строки корзины)
//
// Структура:
//   - db.go         — pgx pool
//   - order_repo.go — выборки и флаги заказов
//   - cart_repo.go  — выборка и удаление брошенных корзин
//   - errors.go     — общие sentinel-ошибки
package repo
