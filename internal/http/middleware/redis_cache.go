package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tg-control-bot/internal/common/errors"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// RedisCache caches successful GET responses for ttl, keyed by the full URL.
// A nil client disables caching. Redis failures are logged and the request is
// served uncached.
func RedisCache(rdb redis.Cmdable, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "httpcache:" + c.Request.Method + ":" + c.Request.URL.RequestURI()
		ctx := c.Request.Context()

		bs, err := rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil && len(bs) > 0:
			var entry cachedResponse
			if json.Unmarshal(bs, &entry) == nil {
				c.Header("X-Cache", "HIT")
				c.Data(entry.Status, entry.ContentType, entry.Body)
				c.Abort()
				return
			}
		case err != nil && err != redis.Nil:
			logCacheError(errors.NewCacheError("get", err), key)
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header("X-Cache", "MISS")
		c.Next()

		status := rec.Status()
		if status < 200 || status >= 300 {
			return
		}
		entry := cachedResponse{Status: status, ContentType: rec.Header().Get("Content-Type"), Body: rec.body.Bytes()}
		payload, err := json.Marshal(entry)
		if err != nil {
			return
		}
		if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
			logCacheError(errors.NewCacheError("set", err), key)
		}
	}
}

func logCacheError(err *errors.AppError, key string) {
	log.Warn().
		Err(err).
		Str("error_code", string(err.Code)).
		Str("key", key).
		Msg("Response cache unavailable")
}
