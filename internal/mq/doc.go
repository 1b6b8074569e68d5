// Package mq реализует работу с RabbitMQ.
//
// Notifier только публикует: уведомления уходят durable-сообщениями
// в очередь notifications.send, которую потребляет внешний mailer.
// Внутри процесса ничего не потребляется.
//
// Топология:
//
//	vitrina.notifications (direct)
//	└── notifications.send [routing: send]
//	        Consumer: mailer (внешний)
//	        DLQ: dlq.notifications
//
//	vitrina.dlq (direct)
//	└── dlq.notifications [routing: notifications]
//	        Разбор вручную
//
// Структура:
//   - connection.go — соединение с автоматическим reconnect
//   - topology.go   — объявление обменников и очередей
//   - publisher.go  — публикация уведомлений
package mq
