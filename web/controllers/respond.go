package controllers

import (
	"errors"
	"fmt"

	"github.com/kataras/iris/v12"

	"github.com/example/ordermart/internal/domain"
)

// writeErr 把业务错误统一映射为 HTTP 状态码。
// 基础设施错误（ErrUnavailable）在服务层已被吸收，到不了这里。
func writeErr(ctx iris.Context, err error) {
	code := iris.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = iris.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		code = iris.StatusBadRequest
	case domain.IsInsufficientStock(err):
		code = iris.StatusConflict
	case domain.IsConflict(err):
		code = iris.StatusConflict
	}
	ctx.StopWithJSON(code, iris.Map{"code": code, "msg": err.Error()})
}

// pagination 解析并校验分页参数：count ∈ (0,100] 默认 10，page >= 1 默认 1
func pagination(ctx iris.Context) (count, page int, err error) {
	count = ctx.URLParamIntDefault("count", 10)
	page = ctx.URLParamIntDefault("page", 1)
	if count <= 0 || count > 100 {
		return 0, 0, fmt.Errorf("count must be in (0,100]: %w", domain.ErrInvalidArgument)
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("page must be >= 1: %w", domain.ErrInvalidArgument)
	}
	return count, page, nil
}
