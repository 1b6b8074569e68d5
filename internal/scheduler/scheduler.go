package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pipeline — пайплайн кампании, привязанный к триггеру.
// Ошибки пайплайн обрабатывает сам (алертит внутри); планировщику
// возвращает итог только для лога.
type Pipeline func(ctx context.Context) error

// Trigger — описание одного триггера.
type Trigger struct {
	// Name — имя триггера (обычно имя кампании).
	Name string `json:"name"`

	// CronExpr — шестипольное cron-выражение с секундами.
	CronExpr string `json:"cron_expr"`

	// Timezone — IANA timezone для вычисления времени срабатывания.
	// Пустое значение — зона процесса.
	Timezone string `json:"timezone,omitempty"`
}

// Alerter — операторский канал алертов.
type Alerter interface {
	Send(ctx context.Context, channel, text string)
}

// Service — планировщик триггеров кампаний.
//
// Явное значение с жизненным циклом Start/Stop вместо глобального
// состояния. Срабатывания одного триггера сериализованы
// (DelayIfStillRunning): новый запуск ждёт завершения предыдущего.
// Триггеры разных кампаний друг друга не блокируют.
//
// Паника пайплайна перехватывается, алертится и не роняет планировщик.
type Service struct {
	cron         *cron.Cron
	alerts       Alerter
	alertChannel string
	logger       *slog.Logger

	mu       sync.Mutex
	entries  map[string]cron.EntryID
	triggers map[string]Trigger
	ctx      context.Context
	started  bool
}

// Config — конфигурация Service.
type Config struct {
	// Alerts — операторский канал алертов (обязателен).
	Alerts Alerter

	// AlertChannel — имя канала алертов.
	AlertChannel string

	// Logger — логгер.
	Logger *slog.Logger
}

// New создаёт новый Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.DelayIfStillRunning(cronLogger{logger: logger})),
	)

	return &Service{
		cron:         c,
		alerts:       cfg.Alerts,
		alertChannel: cfg.AlertChannel,
		logger:       logger,
		entries:      make(map[string]cron.EntryID),
		triggers:     make(map[string]Trigger),
		ctx:          context.Background(),
	}
}

// Register привязывает пайплайн к триггеру.
// Вызывается до Start; имя триггера уникально.
func (s *Service) Register(t Trigger, fn Pipeline) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty trigger name", ErrInvalidTrigger)
	}

	spec, err := cronSpec(t.CronExpr, t.Timezone)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[t.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTrigger, t.Name)
	}

	id, err := s.cron.AddFunc(spec, s.wrap(t.Name, fn))
	if err != nil {
		return fmt.Errorf("add trigger %s: %w", t.Name, err)
	}

	s.entries[t.Name] = id
	s.triggers[t.Name] = t

	s.logger.Info("trigger registered",
		"trigger", t.Name,
		"cron_expr", t.CronExpr,
		"timezone", t.Timezone,
	)

	return nil
}

// wrap оборачивает пайплайн: контекст, лог, перехват паники.
func (s *Service) wrap(name string, fn Pipeline) func() {
	return func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		logger := s.logger.With("trigger", name)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("pipeline panicked",
					"panic", r,
					"stack", string(debug.Stack()),
				)
				s.alerts.Send(ctx, s.alertChannel,
					fmt.Sprintf("trigger %s: pipeline panicked: %v", name, r))
			}
		}()

		logger.Debug("trigger fired")

		if err := fn(ctx); err != nil {
			// Алерт уже ушёл изнутри пайплайна.
			logger.Warn("pipeline finished with error", "error", err)
		}
	}
}

// Start запускает планировщик.
// ctx передаётся в пайплайны всех последующих срабатываний.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.ctx = ctx
	s.started = true
	count := len(s.entries)
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", "triggers", count)
}

// Stop останавливает планировщик и дожидается работающих пайплайнов.
func (s *Service) Stop() {
	s.logger.Info("stopping scheduler...")
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// NextRun возвращает время следующего срабатывания триггера.
func (s *Service) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	next := s.cron.Entry(id).Next
	return next, !next.IsZero()
}

// Triggers возвращает зарегистрированные триггеры, отсортированные по имени.
func (s *Service) Triggers() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggers := make([]Trigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		triggers = append(triggers, t)
	}
	sort.Slice(triggers, func(i, j int) bool {
		return triggers[i].Name < triggers[j].Name
	})
	return triggers
}

// cronLogger адаптирует slog к cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

// Info логирует служебные события cron на уровне Debug.
func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

// Error логирует ошибки cron.
func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
