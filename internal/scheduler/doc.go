// Package scheduler реализует планировщик триггеров кампаний.
//
// Каждый триггер — шестипольное cron-выражение (с секундами) плюс IANA
// timezone, привязанные к пайплайну кампании. Планировщик — явный
// Service со Start/Stop, без глобальных синглтонов.
//
// Гарантии:
//   - срабатывания одного триггера не перекрываются (сериализация)
//   - триггеры разных кампаний независимы
//   - паника пайплайна перехватывается и алертится, планировщик
//     продолжает работать
//
// Структура:
//   - scheduler.go — Service: регистрация триггеров, жизненный цикл
//   - cron.go      — парсинг и валидация выражений, timezone
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Alerts:       alerts,
//	    AlertChannel: "vitrina-alerts",
//	    Logger:       logger,
//	})
//	err := sched.Register(scheduler.Trigger{
//	    Name:     "abandoned_cart",
//	    CronExpr: "0 0 10 * * *",
//	    Timezone: "Europe/Moscow",
//	}, pipeline)
//	sched.Start(ctx)
//	defer sched.Stop()
//
// Leader Election:
//
// Планировщик не реализует leader election: подразумевается один
// активный экземпляр notifier'а.
package scheduler
