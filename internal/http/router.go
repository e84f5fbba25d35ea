// Package http exposes the webhook endpoint, status probes and the read-only
// admin API over gin.
package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tg-control-bot/docs"
	"tg-control-bot/internal/common/config"
	"tg-control-bot/internal/common/middleware"
	mw "tg-control-bot/internal/http/middleware"
	"tg-control-bot/internal/service/dedup"
)

// adminCacheTTL bounds how stale admin API reads may be.
const adminCacheTTL = 2 * time.Second

// Check is a named readiness probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Deps are the collaborators the router serves.
type Deps struct {
	Config *config.Config
	// Base outlives single requests; update processing runs on it so a
	// broadcast is not cut short by Telegram's webhook timeout.
	Base       context.Context
	Dispatcher UpdateHandler
	Dedup      dedup.Guard
	Users      UserReader
	Logs       LogReader
	Accounts   AccountsReader
	// Cache is optional; nil disables admin API response caching.
	Cache  redis.Cmdable
	Checks []Check
}

func NewRouter(d Deps) *gin.Engine {
	if !d.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Base == nil {
		d.Base = context.Background()
	}
	if d.Dedup == nil {
		d.Dedup = dedup.Nop{}
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	status := &statusHandlers{botName: d.Config.Bot.Name, webhookPath: "/webhook/<bot-token>", checks: d.Checks}
	router.GET("/", status.root)
	router.GET("/health", status.health)
	router.GET("/ready", status.ready)

	webhook := &webhookHandler{
		token:      d.Config.Bot.Token,
		secret:     d.Config.Webhook.Secret,
		base:       d.Base,
		dispatcher: d.Dispatcher,
		dedup:      d.Dedup,
	}
	router.POST("/webhook/:token", webhook.handle)

	corsConfig := cors.DefaultConfig()
	if d.Config.Server.Origin == "*" || d.Config.Server.Origin == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{d.Config.Server.Origin}
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.InitDataHeader}

	admin := &adminHandlers{users: d.Users, logs: d.Logs, accounts: d.Accounts}
	v1 := router.Group("/api/v1", cors.New(corsConfig))
	adminGroup := v1.Group("/admin",
		middleware.TelegramInitData(d.Config.Bot.Token, d.Config.Bot.InitDataTTL),
		middleware.RequireAdmin(d.Config.IsAdmin),
		mw.RedisCache(d.Cache, adminCacheTTL),
	)
	admin.register(adminGroup)

	if d.Config.Server.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return router
}
