package middleware

import (
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
)

const requestIDKey = "request_id"

// RequestID 为每个请求生成关联 ID，写入响应头和请求上下文，供日志串联
func RequestID() iris.Handler {
	return func(ctx iris.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Values().Set(requestIDKey, id)
		ctx.Header("X-Request-ID", id)
		ctx.Next()
	}
}

// GetRequestID 取出当前请求的关联 ID
func GetRequestID(ctx iris.Context) string {
	return ctx.Values().GetString(requestIDKey)
}
