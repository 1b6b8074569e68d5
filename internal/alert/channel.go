package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Vitrina/internal/ratelimit"
	"github.com/shaiso/Vitrina/internal/retry"
	"github.com/shaiso/Vitrina/internal/telemetry"
)

// Значения по умолчанию.
const (
	defaultLimit       = 5
	defaultMaxAttempts = 3
	defaultBackoffStep = 3 * time.Second
)

// Poster доставляет текст оператору (бот в мессенджере).
type Poster interface {
	Post(ctx context.Context, text string) error
}

// Channel — канал операторских алертов.
//
// Канал последней инстанции: сюда стекаются все error-path процесса.
// Перед отправкой сверяется со счётчиком окна; при превышении лимита
// вызов молча подавляется — это защита от шторма алертов, а не сбой.
// Доставка повторяется по политике retry; после исчерпания попыток
// алерт только логируется — дальше эскалировать некуда.
type Channel struct {
	counter *ratelimit.Counter
	poster  Poster
	limit   int
	policy  retry.Policy
	logger  *slog.Logger
}

// Config — конфигурация Channel.
type Config struct {
	// Counter — общий счётчик окна (обязателен).
	Counter *ratelimit.Counter

	// Poster — доставка оператору (обязателен).
	Poster Poster

	// Limit — максимум доставленных алертов на окно (default: 5).
	Limit int

	// Policy — политика повторов доставки
	// (default: 3 попытки, линейная задержка 3s × номер попытки).
	Policy retry.Policy

	// Logger — логгер.
	Logger *slog.Logger
}

// NewChannel создаёт новый Channel.
func NewChannel(cfg Config) *Channel {
	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	policy := cfg.Policy
	if policy.MaxAttempts == 0 {
		policy = retry.Policy{
			MaxAttempts: defaultMaxAttempts,
			Delay:       retry.Linear(defaultBackoffStep),
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Channel{
		counter: cfg.Counter,
		poster:  cfg.Poster,
		limit:   limit,
		policy:  policy,
		logger:  logger,
	}
}

// Send доставляет алерт в канал channel.
//
// Подавление по лимиту и провал доставки не возвращаются наружу:
// вызывающий error-path уже обрабатывает собственную ошибку, и судьба
// алерта его поток управления менять не должна.
func (c *Channel) Send(ctx context.Context, channel, text string) {
	if c.counter.Current(channel) >= c.limit {
		c.logger.Debug("alert suppressed by rate limit",
			"channel", channel,
			"limit", c.limit,
		)
		telemetry.AlertsTotal.WithLabelValues(channel, telemetry.ResultSuppress).Inc()
		return
	}

	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		return c.poster.Post(ctx, text)
	})
	if err != nil {
		// Доставить не удалось — только локальный лог.
		c.logger.Error("alert delivery failed, dropping",
			"channel", channel,
			"text", text,
			"error", err,
		)
		telemetry.AlertsTotal.WithLabelValues(channel, telemetry.ResultDropped).Inc()
		return
	}

	c.counter.Increment(channel)
	telemetry.AlertsTotal.WithLabelValues(channel, telemetry.ResultDelivered).Inc()
}
