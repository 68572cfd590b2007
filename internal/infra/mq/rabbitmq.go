package mq

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/example/ordermart/internal/config"
)

// New 建立 RabbitMQ 连接。连接在 main 中创建并注入，进程内共享。
func New(cfg *config.RabbitMQConfig) (*amqp.Connection, error) {
	return amqp.Dial(cfg.URL)
}
