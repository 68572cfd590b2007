package main

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/example/ordermart/internal/config"
	"github.com/example/ordermart/internal/infra/mq"
	"github.com/example/ordermart/internal/logger"
	"github.com/example/ordermart/internal/notify"
)

func main() {
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(false); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	conn, err := mq.New(&cfg.RabbitMQ)
	if err != nil {
		zap.L().Fatal("failed to connect rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	for _, q := range []string{cfg.RabbitMQ.OrderQueue, cfg.RabbitMQ.ProductQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			zap.L().Fatal("failed to declare queue", zap.String("queue", q), zap.Error(err))
		}
	}

	orderMsgs, err := ch.Consume(cfg.RabbitMQ.OrderQueue, consumerTag(cfg.RabbitMQ.OrderQueue), false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume order queue", zap.Error(err))
	}
	productMsgs, err := ch.Consume(cfg.RabbitMQ.ProductQueue, consumerTag(cfg.RabbitMQ.ProductQueue), false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume product queue", zap.Error(err))
	}

	zap.L().Info("consumer started, waiting for events")

	go func() {
		for d := range productMsgs {
			handleProductCreated(d)
		}
	}()
	for d := range orderMsgs {
		handleOrderCreated(d)
	}
}

// consumerTag 按队列生成消费者标签。同一 channel 上标签必须唯一，
// 重复注册会被 broker 以 530 NOT_ALLOWED 拒绝并关闭 channel。
func consumerTag(queue string) string {
	return "ordermart-consumer-" + queue
}

func handleOrderCreated(d amqp.Delivery) {
	var ev notify.OrderCreatedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		zap.L().Warn("invalid order event dropped", zap.Error(err))
		// 消息格式错误，拒绝并丢弃
		_ = d.Nack(false, false)
		return
	}
	zap.L().Info("order created",
		zap.Int64("order_id", ev.OrderID),
		zap.Int64("user_id", ev.UserID),
		zap.String("status", ev.Status),
		zap.String("total_amount", ev.TotalAmount))
	_ = d.Ack(false)
}

func handleProductCreated(d amqp.Delivery) {
	var ev notify.ProductCreatedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		zap.L().Warn("invalid product event dropped", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	zap.L().Info("product created",
		zap.Int64("product_id", ev.ProductID),
		zap.String("name", ev.Name),
		zap.String("price", ev.Price))
	_ = d.Ack(false)
}
