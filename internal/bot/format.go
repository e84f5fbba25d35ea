package bot

import (
	"fmt"
	"html"
	"strings"

	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/user"
)

const timeLayout = "2006-01-02 15:04:05"

// formatUsers renders one HTML line per user.
func formatUsers(users []user.User) string {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		username := u.Username
		if username == "" {
			username = "-"
		}
		banned := "✅"
		if u.IsBanned {
			banned = "🚫"
		}
		vip := "—"
		if u.IsVIP {
			vip = "💎"
		}
		lines = append(lines, fmt.Sprintf("• <b>%d</b> | @%s | %s %s | %s | %s | %s",
			u.ID,
			html.EscapeString(username),
			html.EscapeString(u.FirstName),
			html.EscapeString(u.LastName),
			banned, vip,
			u.JoinedAt.UTC().Format(timeLayout),
		))
	}
	return strings.Join(lines, "\n")
}

// formatLogs renders plain-text lines, newest first as given.
func formatLogs(entries []audit.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("• %s | %s | by %d | %s",
			e.CreatedAt.UTC().Format(timeLayout), e.Action, e.UserID, e.ExtraString()))
	}
	return strings.Join(lines, "\n")
}
