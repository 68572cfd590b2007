package controllers

import (
	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"

	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/middleware"
	"github.com/example/ordermart/internal/service"
)

// ProductController 商品 CRUD 与库存调整
type ProductController struct {
	productService *service.ProductService
}

// NewProductController 构造函数，供路由层挂载
func NewProductController(productSvc *service.ProductService) *ProductController {
	return &ProductController{productService: productSvc}
}

// Create 处理 POST /products
func (c *ProductController) Create(ctx iris.Context) {
	var req struct {
		Name          string          `json:"name"`
		Description   string          `json:"description"`
		Price         decimal.Decimal `json:"price"`
		StockQuantity int64           `json:"stock_quantity"`
	}
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}

	p := &product.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := c.productService.Create(ctx.Request().Context(), p); err != nil {
		middleware.RecordEntityOperation("product", "create", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("product", "create", true)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"code": 0, "data": p})
}

// GetBy 处理 GET /products/{id}，读路径走缓存
func (c *ProductController) GetBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid product id"})
		return
	}
	p, err := c.productService.Get(ctx.Request().Context(), id)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": p})
}

// List 处理 GET /products?count&page&name&min_price&max_price
func (c *ProductController) List(ctx iris.Context) {
	count, page, err := pagination(ctx)
	if err != nil {
		writeErr(ctx, err)
		return
	}

	f := product.Filter{Name: ctx.URLParam("name")}
	if raw := ctx.URLParam("min_price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid min_price"})
			return
		}
		f.MinPrice = &d
	}
	if raw := ctx.URLParam("max_price"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid max_price"})
			return
		}
		f.MaxPrice = &d
	}

	list, err := c.productService.List(ctx.Request().Context(), f, count, page)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": list})
}

// UpdateBy 处理 PUT /products/{id}，缺省字段不覆盖
func (c *ProductController) UpdateBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid product id"})
		return
	}
	var patch product.Patch
	if err := ctx.ReadJSON(&patch); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}
	p, err := c.productService.Update(ctx.Request().Context(), id, patch)
	if err != nil {
		middleware.RecordEntityOperation("product", "update", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("product", "update", true)
	ctx.JSON(iris.Map{"code": 0, "data": p})
}

// DeleteBy 处理 DELETE /products/{id}。
// 被订单项引用过的商品会以 409 拒绝删除。
func (c *ProductController) DeleteBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid product id"})
		return
	}
	deleted, err := c.productService.Delete(ctx.Request().Context(), id)
	if err != nil {
		middleware.RecordEntityOperation("product", "delete", false)
		writeErr(ctx, err)
		return
	}
	if !deleted {
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "product not found"})
		return
	}
	middleware.RecordEntityOperation("product", "delete", true)
	ctx.StatusCode(iris.StatusNoContent)
}

// UpdateStock 处理 PATCH /products/{id}/stock，body 为 {"delta": N}
func (c *ProductController) UpdateStock(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid product id"})
		return
	}
	var req struct {
		Delta int64 `json:"delta"`
	}
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}
	p, err := c.productService.UpdateStock(ctx.Request().Context(), id, req.Delta)
	if err != nil {
		middleware.RecordEntityOperation("product", "update_stock", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("product", "update_stock", true)
	ctx.JSON(iris.Map{"code": 0, "data": p})
}
