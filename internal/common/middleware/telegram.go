package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"tg-control-bot/internal/common/errors"
)

// InitDataHeader carries the raw Mini App init data.
const InitDataHeader = "X-Telegram-Init-Data"

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// TelegramInitData validates the Mini App init data signed with the bot
// token. A zero expIn disables the age check.
func TelegramInitData(token string, expIn time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(InitDataHeader)
		if raw == "" {
			raw = c.Query("init_data")
		}
		if raw == "" {
			Abort(c, errors.NewUnauthorizedError("missing init data"))
			return
		}

		if err := initdata.Validate(raw, token, expIn); err != nil {
			Abort(c, errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid init data"))
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			Abort(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Malformed init data"))
			return
		}
		if parsed.User.ID == 0 {
			Abort(c, errors.NewUnauthorizedError("init data has no user"))
			return
		}

		c.Set(userKey, parsed.User)
		c.Set(userIDKey, parsed.User.ID)
		c.Next()
	}
}

// UserID returns the authenticated Telegram user id.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
