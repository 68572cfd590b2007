package controllers

import (
	"github.com/kataras/iris/v12"

	"github.com/example/ordermart/internal/datamodels/address"
	"github.com/example/ordermart/internal/datamodels/user"
	"github.com/example/ordermart/internal/middleware"
	"github.com/example/ordermart/internal/service"
)

// UserController 用户 CRUD 与地址子资源
type UserController struct {
	userService *service.UserService
}

// NewUserController 构造函数，供路由层挂载
func NewUserController(userSvc *service.UserService) *UserController {
	return &UserController{userService: userSvc}
}

// Create 处理 POST /users
func (c *UserController) Create(ctx iris.Context) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Description string `json:"description"`
	}
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}

	u := &user.User{
		Username:    req.Username,
		Email:       req.Email,
		Description: req.Description,
	}
	if err := c.userService.Create(ctx.Request().Context(), u); err != nil {
		middleware.RecordEntityOperation("user", "create", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("user", "create", true)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"code": 0, "data": u})
}

// GetBy 处理 GET /users/{id}
func (c *UserController) GetBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid user id"})
		return
	}
	u, err := c.userService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": u})
}

// List 处理 GET /users?count&page&username&email
func (c *UserController) List(ctx iris.Context) {
	count, page, err := pagination(ctx)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	f := user.Filter{
		Username: ctx.URLParam("username"),
		Email:    ctx.URLParam("email"),
	}
	list, err := c.userService.GetByFilter(ctx.Request().Context(), f, count, page)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": list})
}

// UpdateBy 处理 PUT /users/{id}，缺省字段不覆盖
func (c *UserController) UpdateBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid user id"})
		return
	}
	var patch user.Patch
	if err := ctx.ReadJSON(&patch); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}
	u, err := c.userService.Update(ctx.Request().Context(), id, patch)
	if err != nil {
		middleware.RecordEntityOperation("user", "update", false)
		writeErr(ctx, err)
		return
	}
	middleware.RecordEntityOperation("user", "update", true)
	ctx.JSON(iris.Map{"code": 0, "data": u})
}

// DeleteBy 处理 DELETE /users/{id}
func (c *UserController) DeleteBy(ctx iris.Context) {
	id, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid user id"})
		return
	}
	deleted, err := c.userService.Delete(ctx.Request().Context(), id)
	if err != nil {
		middleware.RecordEntityOperation("user", "delete", false)
		writeErr(ctx, err)
		return
	}
	if !deleted {
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "user not found"})
		return
	}
	middleware.RecordEntityOperation("user", "delete", true)
	ctx.StatusCode(iris.StatusNoContent)
}

// CreateAddress 处理 POST /users/{id}/addresses
func (c *UserController) CreateAddress(ctx iris.Context) {
	userID, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid user id"})
		return
	}
	var req struct {
		Street    string `json:"street"`
		City      string `json:"city"`
		State     string `json:"state"`
		ZipCode   string `json:"zip_code"`
		Country   string `json:"country"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
		return
	}

	a := &address.Address{
		UserID:    userID,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsPrimary: req.IsPrimary,
	}
	if err := c.userService.CreateAddress(ctx.Request().Context(), a); err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"code": 0, "data": a})
}

// ListAddresses 处理 GET /users/{id}/addresses
func (c *UserController) ListAddresses(ctx iris.Context) {
	userID, err := ctx.Params().GetInt64("id")
	if err != nil {
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "invalid user id"})
		return
	}
	list, err := c.userService.ListAddresses(ctx.Request().Context(), userID)
	if err != nil {
		writeErr(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"code": 0, "data": list})
}
