package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tg-control-bot/internal/common/errors"
	"tg-control-bot/internal/common/middleware"
	"tg-control-bot/internal/domain/accounts"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/user"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

type UserReader interface {
	Stats(ctx context.Context) (user.Stats, error)
	ListRecent(ctx context.Context, limit int) ([]user.User, error)
	Search(ctx context.Context, query string, limit int) ([]user.User, error)
}

type LogReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type AccountsReader interface {
	Snapshot() accounts.Lists
}

type adminHandlers struct {
	users    UserReader
	logs     LogReader
	accounts AccountsReader
}

func (h *adminHandlers) register(g *gin.RouterGroup) {
	g.GET("/stats", h.stats)
	g.GET("/users", h.listUsers)
	g.GET("/logs", h.listLogs)
	g.GET("/accounts", h.listAccounts)
}

// stats godoc
// @Summary      Roster statistics
// @Tags         admin
// @Produce      json
// @Security     TelegramInitData
// @Success      200  {object}  user.Stats
// @Failure      401  {object}  middleware.ErrorResponse
// @Failure      403  {object}  middleware.ErrorResponse
// @Router       /admin/stats [get]
func (h *adminHandlers) stats(c *gin.Context) {
	st, err := h.users.Stats(c.Request.Context())
	if err != nil {
		middleware.Abort(c, errors.NewDatabaseError("stats", err))
		return
	}
	c.JSON(http.StatusOK, st)
}

// listUsers godoc
// @Summary      Recent users or search
// @Description  Newest users first. With q, a case-sensitive substring match over id, username and names.
// @Tags         admin
// @Produce      json
// @Security     TelegramInitData
// @Param        q      query  string  false  "search text"
// @Param        limit  query  int     false  "max rows (1-200)"  default(20)
// @Success      200  {array}   user.User
// @Failure      400  {object}  middleware.ErrorResponse
// @Router       /admin/users [get]
func (h *adminHandlers) listUsers(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	var users []user.User
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		users, err = h.users.Search(c.Request.Context(), q, limit)
	} else {
		users, err = h.users.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		middleware.Abort(c, errors.NewDatabaseError("list users", err))
		return
	}
	if users == nil {
		users = []user.User{}
	}
	c.JSON(http.StatusOK, users)
}

// listLogs godoc
// @Summary      Recent admin actions
// @Tags         admin
// @Produce      json
// @Security     TelegramInitData
// @Param        limit  query  int  false  "max rows (1-200)"  default(20)
// @Success      200  {array}   audit.Entry
// @Failure      400  {object}  middleware.ErrorResponse
// @Router       /admin/logs [get]
func (h *adminHandlers) listLogs(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	entries, err := h.logs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		middleware.Abort(c, errors.NewDatabaseError("list logs", err))
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// listAccounts godoc
// @Summary      Tracked account handles
// @Tags         admin
// @Produce      json
// @Security     TelegramInitData
// @Success      200  {object}  accounts.Lists
// @Router       /admin/accounts [get]
func (h *adminHandlers) listAccounts(c *gin.Context) {
	lists := h.accounts.Snapshot()
	if lists.Instagram == nil {
		lists.Instagram = []string{}
	}
	if lists.Telegram == nil {
		lists.Telegram = []string{}
	}
	c.JSON(http.StatusOK, lists)
}

func parseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxListLimit {
		return 0, errors.NewValidationError("limit", "must be an integer between 1 and 200")
	}
	return n, nil
}
