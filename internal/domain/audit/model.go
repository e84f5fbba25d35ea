package audit

import (
	"context"
	"time"
)

// Action tags written by admin operations.
const (
	ActionStats             = "stats"
	ActionBroadcast         = "broadcast"
	ActionAccountsUpdate    = "accounts_update"
	ActionBan               = "ban"
	ActionUnban             = "unban"
	ActionToggleVIP         = "toggle_vip"
	ActionBackup            = "backup"
	ActionToggleMaintenance = "toggle_maintenance"
)

// Entry is an append-only record of an admin action.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Extra     *string   `json:"extra"`
	CreatedAt time.Time `json:"created_at"`
}

// ExtraString returns Extra or "" when absent.
func (e Entry) ExtraString() string {
	if e.Extra == nil {
		return ""
	}
	return *e.Extra
}

// Repository is the append-only action log.
type Repository interface {
	// Append stores a new entry; an empty extra is stored as NULL.
	Append(ctx context.Context, actorID int64, action, extra string) error
	// ListRecent returns the newest entries first.
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
}
