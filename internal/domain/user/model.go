package user

import "time"

// User mirrors a Telegram identity that has contacted the bot.
// ID is the Telegram user ID; name fields are refreshed on every contact.
type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsBanned  bool      `json:"is_banned"`
	IsVIP     bool      `json:"is_vip"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Stats is the roster summary shown on the admin panel.
type Stats struct {
	Total  int `json:"total"`
	Banned int `json:"banned"`
	VIP    int `json:"vip"`
}
