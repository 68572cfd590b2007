package main

import (
	"log"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/example/ordermart/internal/config"
	"github.com/example/ordermart/internal/infra/mq"
	"github.com/example/ordermart/internal/infra/redis"
	"github.com/example/ordermart/internal/logger"
	"github.com/example/ordermart/internal/repository/mysql"
	"github.com/example/ordermart/internal/server"
)

func main() {
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(false); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	zap.L().Info("log init success")

	db, err := mysql.Init(&cfg.MySQL)
	if err != nil {
		zap.L().Fatal("failed to connect mysql", zap.Error(err))
	}

	// 缓存和 MQ 连不上不阻止启动：对应路径降级运行
	var redisClient radix.Client
	if redisClient, err = redis.New(&cfg.Redis); err != nil {
		zap.L().Warn("redis unavailable, cache disabled", zap.Error(err))
		redisClient = nil
	}

	var mqConn *amqp.Connection
	if mqConn, err = mq.New(&cfg.RabbitMQ); err != nil {
		zap.L().Warn("rabbitmq unavailable, notifications disabled", zap.Error(err))
		mqConn = nil
	}

	app := iris.New()
	server.RegisterRoutes(app, server.Deps{
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		MQ:    mqConn,
	})

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("failed to run web server", zap.Error(err))
	}
}
