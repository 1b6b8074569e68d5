// Package api реализует ops HTTP API notifier'а.
//
// Endpoints:
//   - GET  /api/v1/campaigns               — состояние кампаний
//   - POST /api/v1/campaigns/{kind}/sweep  — внеплановый проход
//   - GET  /api/v1/campaigns/{kind}/report — последний отчёт
//
// Покупательских endpoint'ов здесь нет — API служебный, для оператора
// и CLI. /healthz и /metrics вешаются на тот же mux в main.
package api
