package middleware

import (
	"context"

	"student_insight/internal/util"

	"github.com/gin-gonic/gin"
)

const ContextStudentKey = "student"

type SessionChecker interface {
	Enforced() bool
	Session(ctx context.Context, token string) (string, bool)
}

// SessionMiddleware 仅在 captcha.enforce 打开时校验登录下发的会话令牌
func SessionMiddleware(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checker.Enforced() {
			c.Next()
			return
		}

		token := c.GetHeader(util.SessionHeader)
		if token == "" {
			token = c.Query("token")
		}

		name, ok := checker.Session(c.Request.Context(), token)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ContextStudentKey, name)
		c.Next()
	}
}
