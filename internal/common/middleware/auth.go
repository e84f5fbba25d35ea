package middleware

import (
	"github.com/gin-gonic/gin"

	"tg-control-bot/internal/common/errors"
)

// RequireAdmin lets through only users accepted by isAdmin. It must run
// after TelegramInitData.
func RequireAdmin(isAdmin func(int64) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			Abort(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}
		if !isAdmin(userID) {
			Abort(c, errors.NewForbiddenError("admin access required").WithDetail("user_id", userID))
			return
		}
		c.Next()
	}
}
