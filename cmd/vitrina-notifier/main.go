// Vitrina notifier — процесс плановых рассылок магазина.
//
// Держит три кампании (напоминание о корзине, уведомление о задержке,
// просьба об отзыве), планировщик их триггеров, канал операторских
// алертов и ops API для ручного управления.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Vitrina/internal/alert"
	"github.com/shaiso/Vitrina/internal/api"
	"github.com/shaiso/Vitrina/internal/campaign"
	"github.com/shaiso/Vitrina/internal/config"
	"github.com/shaiso/Vitrina/internal/domain"
	"github.com/shaiso/Vitrina/internal/mq"
	"github.com/shaiso/Vitrina/internal/ratelimit"
	"github.com/shaiso/Vitrina/internal/repo"
	"github.com/shaiso/Vitrina/internal/retry"
	"github.com/shaiso/Vitrina/internal/scheduler"
	"github.com/shaiso/Vitrina/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting vitrina-notifier")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Подключаемся к базе данных
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Подключаемся к RabbitMQ и объявляем топологию
	conn, err := mq.NewConnection(cfg.AMQPURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := mq.SetupTopology(ctx, conn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	publisher := mq.NewPublisher(conn, logger)

	// Канал операторских алертов
	var poster alert.Poster
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		poster = alert.NewTelegramBot(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramParseMode)
	} else {
		logger.Warn("telegram is not configured, alerts will be logged only")
		poster = logPoster{logger: logger}
	}

	alerts := alert.NewChannel(alert.Config{
		Counter: ratelimit.NewCounter(cfg.AlertWindow),
		Poster:  poster,
		Limit:   cfg.AlertLimit,
		Policy: retry.Policy{
			MaxAttempts: 3,
			Delay:       retry.Linear(3 * time.Second),
		},
		Logger: logger,
	})

	// Репозитории и кампании
	orders := repo.NewOrderRepo(pool)
	carts := repo.NewCartRepo(pool)

	campaigns := []campaign.Campaign{
		campaign.NewAbandonedCart(carts, cfg.CartIdle),
		campaign.NewLateOrder(orders, cfg.LateAfter),
		campaign.NewReviewRequest(orders, cfg.ReviewDelay),
	}

	sweeper := campaign.NewSweeper(campaign.Config{
		Sender:       campaign.SenderFunc(publisher.PublishNotification),
		Alerts:       alerts,
		AlertChannel: cfg.AlertChannel,
		Concurrency:  int64(cfg.Concurrency),
		Logger:       logger,
	})

	// Планировщик триггеров
	sched := scheduler.New(scheduler.Config{
		Alerts:       alerts,
		AlertChannel: cfg.AlertChannel,
		Logger:       logger,
	})

	triggers := map[domain.CampaignKind]string{
		domain.CampaignAbandonedCart: cfg.CartCron,
		domain.CampaignLateOrder:     cfg.LateCron,
		domain.CampaignReviewRequest: cfg.ReviewCron,
	}

	for _, c := range campaigns {
		c := c
		expr, ok := triggers[c.Kind()]
		if !ok {
			continue
		}

		err := sched.Register(
			scheduler.Trigger{
				Name:     c.Kind().String(),
				CronExpr: expr,
				Timezone: cfg.Timezone,
			},
			func(ctx context.Context) error {
				_, err := sweeper.Run(ctx, c)
				return err
			},
		)
		if err != nil {
			logger.Error("failed to register trigger", "campaign", c.Kind(), "error", err)
			os.Exit(1)
		}
	}

	sched.Start(ctx)
	defer sched.Stop()

	// Ops API handler
	handler := api.NewHandler(api.Config{
		Sweeper:   sweeper,
		Campaigns: campaigns,
		Scheduler: sched,
		Logger:    logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !conn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "amqp disconnected")
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// logPoster — fallback-доставка алертов в лог, когда Telegram не настроен.
type logPoster struct {
	logger *slog.Logger
}

func (p logPoster) Post(_ context.Context, text string) error {
	p.logger.Warn("operator alert", "text", text)
	return nil
}
