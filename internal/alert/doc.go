// Package alert реализует операторский канал алертов.
//
// Контракт:
//   - Send(ctx, channel, text) — единая точка для всех error-path
//   - при превышении лимита окна алерт молча подавляется
//   - доставка повторяется по политике retry с линейным backoff
//   - после исчерпания попыток алерт только логируется
//
// Структура:
//   - channel.go  — Channel: rate limit + retry + учёт доставленных
//   - telegram.go — TelegramBot: доставка через Bot API sendMessage
package alert
