package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/shaiso/Vitrina/internal/domain"
	"github.com/shaiso/Vitrina/internal/telemetry"
)

// Значения по умолчанию.
const (
	defaultConcurrency  = 10
	defaultAlertChannel = "vitrina-alerts"
)

// Sweeper выполняет проходы кампаний: Scan → fan-out отправок → Commit.
//
// Отправки идут с потолком одновременных in-flight операций, итоги
// каждой сущности независимы. Последний отчёт каждой кампании хранится
// в памяти для ops API.
type Sweeper struct {
	sender       Sender
	alerts       Alerter
	alertChannel string
	concurrency  int64
	logger       *slog.Logger

	mu      sync.Mutex
	running map[domain.CampaignKind]bool
	reports map[domain.CampaignKind]domain.SweepReport
}

// Config — конфигурация Sweeper.
type Config struct {
	// Sender — отправка уведомлений (обязателен).
	Sender Sender

	// Alerts — операторский канал алертов (обязателен).
	Alerts Alerter

	// AlertChannel — имя канала алертов (default: "vitrina-alerts").
	AlertChannel string

	// Concurrency — потолок одновременных отправок (default: 10).
	Concurrency int64

	// Logger — логгер.
	Logger *slog.Logger
}

// NewSweeper создаёт новый Sweeper.
func NewSweeper(cfg Config) *Sweeper {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	alertChannel := cfg.AlertChannel
	if alertChannel == "" {
		alertChannel = defaultAlertChannel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		sender:       cfg.Sender,
		alerts:       cfg.Alerts,
		alertChannel: alertChannel,
		concurrency:  concurrency,
		logger:       logger,
		running:      make(map[domain.CampaignKind]bool),
		reports:      make(map[domain.CampaignKind]domain.SweepReport),
	}
}

// Run выполняет один проход кампании.
//
// Проходы одной кампании сериализованы: повторный запуск во время
// работающего прохода возвращает ErrSweepRunning. Проходы разных
// кампаний могут идти параллельно — они мутируют непересекающиеся поля.
//
// Ошибка выборки прерывает весь проход (частичной выборке доверять
// нельзя); ошибки отправки и пометки изолированы в своей сущности.
func (s *Sweeper) Run(ctx context.Context, c Campaign) (domain.SweepReport, error) {
	kind := c.Kind()

	s.mu.Lock()
	if s.running[kind] {
		s.mu.Unlock()
		return domain.SweepReport{}, fmt.Errorf("%w: %s", ErrSweepRunning, kind)
	}
	s.running[kind] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, kind)
		s.mu.Unlock()
	}()

	logger := telemetry.WithCampaign(s.logger, kind.String())
	started := time.Now()

	targets, err := c.Scan(ctx, started)
	if err != nil {
		logger.Error("eligibility scan failed, aborting sweep", "error", err)
		s.alerts.Send(ctx, s.alertChannel,
			fmt.Sprintf("sweep %s: eligibility scan failed: %v", kind, err))
		telemetry.SweepsTotal.WithLabelValues(kind.String(), telemetry.ResultError).Inc()
		return domain.SweepReport{Campaign: kind, StartedAt: started}, fmt.Errorf("scan %s: %w", kind, err)
	}

	logger.Debug("eligibility scan completed", "eligible", len(targets))

	var sent, sendFailed, committed, commitFailed atomic.Int64

	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup

	for i := range targets {
		target := targets[i]

		if err := sem.Acquire(ctx, 1); err != nil {
			// Процесс завершается: уже отправленное помечено,
			// остальное нетронуто и безопасно для следующего прохода.
			logger.Warn("sweep interrupted", "error", err)
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.sender.Send(ctx, target.Notification); err != nil {
				sendFailed.Add(1)
				telemetry.NotificationsTotal.WithLabelValues(kind.String(), telemetry.ResultError).Inc()
				logger.Warn("notification send failed",
					"key", target.Key,
					"error", err,
				)
				s.alerts.Send(ctx, s.alertChannel,
					fmt.Sprintf("campaign %s: send to %s failed: %v", kind, target.Key, err))
				return
			}

			sent.Add(1)
			telemetry.NotificationsTotal.WithLabelValues(kind.String(), telemetry.ResultOK).Inc()

			// Пометка строго после подтверждённой отправки
			// и только для этой сущности.
			if err := c.Commit(ctx, target); err != nil {
				commitFailed.Add(1)
				telemetry.CommitsTotal.WithLabelValues(kind.String(), telemetry.ResultError).Inc()
				logger.Warn("state commit failed, entity stays eligible",
					"key", target.Key,
					"error", err,
				)
				s.alerts.Send(ctx, s.alertChannel,
					fmt.Sprintf("campaign %s: commit for %s failed: %v (will be resent next sweep)", kind, target.Key, err))
				return
			}

			committed.Add(1)
			telemetry.CommitsTotal.WithLabelValues(kind.String(), telemetry.ResultOK).Inc()
		}()
	}

	wg.Wait()

	report := domain.SweepReport{
		Campaign:     kind,
		Eligible:     len(targets),
		Sent:         int(sent.Load()),
		SendFailed:   int(sendFailed.Load()),
		Committed:    int(committed.Load()),
		CommitFailed: int(commitFailed.Load()),
		StartedAt:    started,
		Duration:     time.Since(started),
	}

	s.mu.Lock()
	s.reports[kind] = report
	s.mu.Unlock()

	telemetry.SweepsTotal.WithLabelValues(kind.String(), telemetry.ResultOK).Inc()
	telemetry.SweepDuration.WithLabelValues(kind.String()).Observe(report.Duration.Seconds())

	logger.Info("sweep completed",
		"eligible", report.Eligible,
		"sent", report.Sent,
		"send_failed", report.SendFailed,
		"committed", report.Committed,
		"commit_failed", report.CommitFailed,
		"duration", report.Duration,
	)

	return report, nil
}

// LastReport возвращает последний отчёт кампании.
func (s *Sweeper) LastReport(kind domain.CampaignKind) (domain.SweepReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[kind]
	return report, ok
}

// IsRunning проверяет, идёт ли сейчас проход кампании.
func (s *Sweeper) IsRunning(kind domain.CampaignKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[kind]
}
