package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type statusHandlers struct {
	botName string
	// webhookPath is shown with the token masked; the real path is a secret.
	webhookPath string
	checks      []Check
}

func (h *statusHandlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"bot":     h.botName,
		"webhook": h.webhookPath,
	})
}

func (h *statusHandlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "tg-control-bot",
	})
}

func (h *statusHandlers) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   check.Name + " unavailable",
				"details": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"service":   "tg-control-bot",
	})
}
