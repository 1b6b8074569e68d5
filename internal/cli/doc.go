// Package cli реализует инструмент командной строки Vitrina.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с ops API notifier'а.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для просмотра кампаний, внепланового запуска
// проходов и чтения отчётов.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для ops API. Инкапсулирует запросы, парсинг конверта
// ответов (data/error) и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	campaigns, err := client.ListCampaigns()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: vitrina campaign list --json | jq .
//
// ## Commands
//
// Cobra-команды:
//   - campaign: list, sweep, report
//
// Группа создаётся через фабричную функцию NewCampaignCmd, принимающую
// clientFn и outputFn — замыкания для ленивого создания Client и Output
// после парсинга PersistentFlags.
package cli
