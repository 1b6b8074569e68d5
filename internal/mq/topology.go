package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Имена обменников.
const (
	ExchangeNotifications Exchange = "vitrina.notifications"
	ExchangeDLQ           Exchange = "vitrina.dlq"
)

// Имена очередей.
const (
	// QueueNotificationsSend — очередь исходящих уведомлений.
	// Потребитель: внешний mailer (вёрстка и доставка писем).
	QueueNotificationsSend Queue = "notifications.send"

	// QueueDLQNotifications — уведомления, отвергнутые mailer'ом.
	QueueDLQNotifications Queue = "dlq.notifications"
)

// Ключи маршрутизации.
const (
	RoutingKeySend             RoutingKey = "send"
	RoutingKeyDLQNotifications RoutingKey = "notifications"
)

// SetupTopology объявляет обменники, очереди и привязки.
// Операция идемпотентна, выполняется при старте notifier'а.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		exchanges := []Exchange{ExchangeNotifications, ExchangeDLQ}
		for _, ex := range exchanges {
			err := ch.ExchangeDeclare(
				string(ex), // name
				"direct",   // type
				true,       // durable
				false,      // auto-deleted
				false,      // internal
				false,      // no-wait
				nil,        // arguments
			)
			if err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex, err)
			}
		}

		// notifications.send — с DLQ: mailer может отвергнуть сообщение
		// после своих retry.
		dlqArgs := amqp.Table{
			"x-dead-letter-exchange":    string(ExchangeDLQ),
			"x-dead-letter-routing-key": string(RoutingKeyDLQNotifications),
		}

		queues := []struct {
			name Queue
			args amqp.Table
		}{
			{QueueNotificationsSend, dlqArgs},
			{QueueDLQNotifications, nil},
		}
		for _, q := range queues {
			_, err := ch.QueueDeclare(
				string(q.name), // name
				true,           // durable
				false,          // delete when unused
				false,          // exclusive
				false,          // no-wait
				q.args,         // arguments
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
			exchange   Exchange
		}{
			{QueueNotificationsSend, RoutingKeySend, ExchangeNotifications},
			{QueueDLQNotifications, RoutingKeyDLQNotifications, ExchangeDLQ},
		}
		for _, b := range bindings {
			err := ch.QueueBind(
				string(b.queue),      // queue name
				string(b.routingKey), // routing key
				string(b.exchange),   // exchange
				false,                // no-wait
				nil,                  // arguments
			)
			if err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
			}
		}

		return nil
	})
}
