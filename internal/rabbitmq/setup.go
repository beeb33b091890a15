package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Имена обменника, очереди и ключа маршрутизации для уведомлений
// об истекающих подписках.
const (
	NotificationsExchange = "notifications"
	ExpiringQueue         = "notifications.expiring"
	ExpiringRoutingKey    = "expiring"
)

// SetupChannel открывает канал и объявляет обменник с очередью уведомлений.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		NotificationsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		ExpiringQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.QueueBind(ExpiringQueue, ExpiringRoutingKey, NotificationsExchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}
