package server

import (
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"

	"github.com/example/ordermart/internal/cache"
	"github.com/example/ordermart/internal/config"
	"github.com/example/ordermart/internal/middleware"
	"github.com/example/ordermart/internal/notify"
	"github.com/example/ordermart/internal/repository/mysql"
	"github.com/example/ordermart/internal/service"
	webcontrollers "github.com/example/ordermart/web/controllers"
)

// Deps 由 main 构造并注入的进程级依赖。
// Redis 和 MQ 允许为 nil：对应的缓存/通知路径整体降级。
type Deps struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Redis radix.Client
	MQ    *amqp.Connection
}

// RegisterRoutes 装配仓储、服务、控制器并注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, deps Deps) {
	app.Use(middleware.RequestID())
	app.Use(middleware.PrometheusMiddleware())

	// 仓储
	userRepo := mysql.NewUserRepository(deps.DB)
	addressRepo := mysql.NewAddressRepository(deps.DB)
	productRepo := mysql.NewProductRepository(deps.DB)
	orderRepo := mysql.NewOrderRepository(deps.DB)

	// 端口实现
	var c cache.Cache
	if deps.Redis != nil {
		c = cache.NewRedisCache(deps.Redis)
	}
	var pub notify.Publisher
	if deps.MQ != nil {
		pub = notify.NewRabbitPublisher(deps.MQ)
	}

	// 服务
	userSvc := service.NewUserService(userRepo, addressRepo, c,
		time.Duration(deps.Cfg.Cache.UserTTLSeconds)*time.Second)
	productSvc := service.NewProductService(productRepo, c, pub,
		deps.Cfg.RabbitMQ.ProductQueue,
		time.Duration(deps.Cfg.Cache.ProductTTLSeconds)*time.Second)
	orderSvc := service.NewOrderService(orderRepo, userRepo, pub, deps.Cfg.RabbitMQ.OrderQueue)

	userCtl := webcontrollers.NewUserController(userSvc)
	productCtl := webcontrollers.NewProductController(productSvc)
	orderCtl := webcontrollers.NewOrderController(orderSvc)

	// 运维端点
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})
	app.Get("/metrics", iris.FromStd(promhttp.Handler()))
	app.Get("/api/stats", func(ctx iris.Context) {
		ctx.JSON(service.GetMonitor().GetStats())
	})

	users := app.Party("/users")
	users.Post("/", userCtl.Create)
	users.Get("/", userCtl.List)
	users.Get("/{id:int64}", userCtl.GetBy)
	users.Put("/{id:int64}", userCtl.UpdateBy)
	users.Delete("/{id:int64}", userCtl.DeleteBy)
	users.Post("/{id:int64}/addresses", userCtl.CreateAddress)
	users.Get("/{id:int64}/addresses", userCtl.ListAddresses)

	products := app.Party("/products")
	products.Post("/", productCtl.Create)
	products.Get("/", productCtl.List)
	products.Get("/{id:int64}", productCtl.GetBy)
	products.Put("/{id:int64}", productCtl.UpdateBy)
	products.Delete("/{id:int64}", productCtl.DeleteBy)
	products.Patch("/{id:int64}/stock", productCtl.UpdateStock)

	orders := app.Party("/orders")
	orders.Post("/", middleware.OrderWriteRateLimit(), orderCtl.Create)
	orders.Get("/", orderCtl.List)
	orders.Get("/{id:int64}", orderCtl.GetBy)
	orders.Put("/{id:int64}", orderCtl.UpdateBy)
	orders.Delete("/{id:int64}", orderCtl.DeleteBy)
}
