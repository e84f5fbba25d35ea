package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tg-control-bot/internal/platform/telegram"
	"tg-control-bot/internal/service/dedup"
)

// SecretHeader carries the secret_token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler processes one inbound update.
type UpdateHandler interface {
	Handle(ctx context.Context, upd *telegram.Update) error
}

type webhookHandler struct {
	token      string
	secret     string
	base       context.Context
	dispatcher UpdateHandler
	dedup      dedup.Guard
}

func (h *webhookHandler) handle(c *gin.Context) {
	if c.Param("token") != h.token {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(c.GetHeader(SecretHeader)), []byte(h.secret)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Invalid secret"})
		return
	}

	var upd telegram.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid update payload"})
		return
	}

	logger := log.With().Int64("update_id", upd.UpdateID).Logger()

	seen, err := h.dedup.Seen(c.Request.Context(), upd.UpdateID)
	if err != nil {
		logger.Warn().Err(err).Msg("Update de-duplication unavailable")
	}
	if seen {
		logger.Debug().Msg("Duplicate update skipped")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// Handler errors are logged, not returned: a non-2xx makes Telegram
	// redeliver the same update.
	if err := h.dispatcher.Handle(h.base, &upd); err != nil {
		logger.Error().Err(err).Msg("Failed to handle update")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
