package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// QueueConfig связывает очередь с ключом маршрутизации в exchange "applications".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetApplicationQueues возвращает очереди событий отклика.
func GetApplicationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "application.submitted", RoutingKey: "submitted"},
		{QueueName: "wallet.debited", RoutingKey: "debited"},
	}
}

// SetupChannel открывает канал, объявляет exchange "applications"
// и привязывает к нему переданные очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		"applications", // exchange
		"direct",       // тип
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, "applications", false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, q.QueueName, err)
		}
	}

	return ch, nil
}
