// Package telemetry обеспечивает наблюдаемость подсистемы уведомлений.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Формат и уровень логов задаются переменными LOG_FORMAT и LOG_LEVEL;
// notifier экспортирует метрики на /metrics endpoint.
package telemetry
