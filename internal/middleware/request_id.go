package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/news-portal/pkg/utils"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配ID，客户端已携带时沿用
func RequestID(node *utils.SnowflakeNode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = node.GenerateID()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 从上下文中获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("requestID")
}
