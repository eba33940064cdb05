package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestIDMaxLen 超长的外部 Request-ID 直接丢弃重新生成，避免日志被注入超长串
const requestIDMaxLen = 64

// RequestID 为每个请求分配追踪 ID：优先沿用调用方携带的 X-Request-ID，
// 缺失或超长时生成新的 UUID，并回写响应头便于客户端对账
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)

		c.Next()
	}
}
