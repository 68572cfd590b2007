package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/ordermart/internal/domain"
)

type rabbitPublisher struct {
	conn *amqp.Connection
}

// NewRabbitPublisher 基于共享的 RabbitMQ 连接实现通知端口。
// 每次发布独立开一个 channel，用完即关。
func NewRabbitPublisher(conn *amqp.Connection) Publisher {
	return &rabbitPublisher{conn: conn}
}

func (p *rabbitPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", domain.ErrUnavailable)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, domain.ErrUnavailable)
	}

	err = ch.PublishWithContext(
		ctx,
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, domain.ErrUnavailable)
	}
	return nil
}
