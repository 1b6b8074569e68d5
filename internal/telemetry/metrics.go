package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты для лейбла result.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultDelivered = "delivered"
	ResultSuppress  = "suppressed"
	ResultDropped   = "dropped"
)

// Метрики подсистемы уведомлений.
var (
	// SweepsTotal — количество проходов кампаний.
	// result: ok | error (error — сбой выборки, проход прерван).
	SweepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitrina_sweeps_total",
		Help: "Number of campaign sweeps by result.",
	}, []string{"campaign", "result"})

	// SweepDuration — длительность прохода кампании.
	SweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vitrina_sweep_duration_seconds",
		Help:    "Campaign sweep duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"campaign"})

	// NotificationsTotal — количество отправок уведомлений.
	// result: ok | error.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitrina_notifications_total",
		Help: "Number of notification sends by result.",
	}, []string{"campaign", "result"})

	// CommitsTotal — количество idempotency-пометок.
	// result: ok | error.
	CommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitrina_commits_total",
		Help: "Number of post-send state commits by result.",
	}, []string{"campaign", "result"})

	// AlertsTotal — количество операторских алертов.
	// result: delivered | suppressed | dropped.
	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitrina_alerts_total",
		Help: "Number of operator alerts by outcome.",
	}, []string{"channel", "result"})
)
