package middleware

import (
	"net/http"
	"strconv"

	"dorphin/internal/api/response"
	"dorphin/internal/ratelimit"
	"dorphin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 令牌桶限流中间件（必须在 AuthRequired 之后使用）
// Redis 不可用时放行，限流是保护手段不是功能开关。
func RateLimit(bucket *ratelimit.TokenBucket, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		allowed, err := bucket.Allow(c.Request.Context(), strconv.FormatInt(userID, 10), action)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request",
				zap.Int64("user_id", userID),
				zap.String("action", action),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			response.Fail(c, http.StatusTooManyRequests, "rate_limited", "操作太频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
