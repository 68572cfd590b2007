package controllers

import (
	"github.com/kataras/iris/v12"

	"github.com/example/ordermart/internal/datamodels/order"
	"github.com/example/ordermart/internal/middleware"
	"github.com/example/ordermart/internal/service"
)

// OrderController 订单接口：创建是事务性的，取消会归还库存
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController 构造函数，供路由层挂载
func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{orderService: orderSvc}
}

// Create 处理 POST /orders
func (c *OrderController) Create(ctx iris.Context) {
	var req struct {
		UserID    int64             `json:"user_id"`
		AddressID int64             `json:"address_id"`
		Status    string            `json:"status"`
		Items     []order.ItemInput `json:"items"`
	}
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}

	o, err := c.orderService.Create(ctx.Request().Context(), req.UserID, req.AddressID, req.Status, req.Items)
	if err != nil {
		middleware.RecordEntityOperation("order", "create", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("order", "create", true)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"code": 0, "data": o})
}

// GetBy 处理 GET /orders/{id}，订单项与商品都已预加载
func (c *OrderController) GetBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid order id"})
		return
	}
	o, err := c.orderService.Get(ctx.Request().Context(), id)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": o})
}

// List 处理 GET /orders?count&page&user_id
func (c *OrderController) List(ctx iris.Context) {
	count, page, err := pagination(ctx)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	userID := int64(ctx.URLParamIntDefault("user_id", 0))

	list, err := c.orderService.List(ctx.Request().Context(), count, page, userID)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": list})
}

// UpdateBy 处理 PUT /orders/{id}，只接受状态补丁
func (c *OrderController) UpdateBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid order id"})
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}
	o, err := c.orderService.UpdateStatus(ctx.Request().Context(), id, req.Status)
	if err != nil {
		middleware.RecordEntityOperation("order", "update", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("order", "update", true)
	ctx.JSON(iris.Map{"code": 0, "data": o})
}

// DeleteBy 处理 DELETE /orders/{id}，取消订单并归还库存
func (c *OrderController) DeleteBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid order id"})
		return
	}
	deleted, err := c.orderService.Delete(ctx.Request().Context(), id)
	if err != nil {
		middleware.RecordEntityOperation("order", "delete", false)
		writeErr(ctx, err)
		return
	}
	if !deleted {
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
		return
	}
	middleware.RecordEntityOperation("order", "delete", true)
	ctx.StatusCode(iris.StatusNoContent)
}
