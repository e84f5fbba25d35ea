package telegram

import "strings"

// Update is the subset of the Bot API update object the bot subscribes to.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Sender returns the user that caused the update, or nil.
func (u *Update) Sender() *User {
	switch {
	case u.Message != nil:
		return u.Message.From
	case u.CallbackQuery != nil:
		return &u.CallbackQuery.From
	}
	return nil
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// Command returns the bot command without the leading slash and any
// @botname suffix, or "" when the text is not a command.
func (m *Message) Command() string {
	if m == nil || len(m.Text) < 2 || m.Text[0] != '/' {
		return ""
	}
	cmd := m.Text[1:]
	for i, r := range cmd {
		if r == ' ' || r == '\n' || r == '@' {
			return cmd[:i]
		}
	}
	return cmd
}

// AddressedTo reports whether a command is meant for the bot with the given
// username. In groups Telegram appends @username to commands picked from a
// bot's menu; a bare command, or an empty username, always matches.
func (m *Message) AddressedTo(username string) bool {
	if m.Command() == "" || username == "" {
		return true
	}
	token, _, _ := strings.Cut(m.Text[1:], " ")
	token, _, _ = strings.Cut(token, "\n")
	_, target, found := strings.Cut(token, "@")
	return !found || strings.EqualFold(target, username)
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

// Keyboard builds a markup from rows of buttons.
func Keyboard(rows ...[]InlineKeyboardButton) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

// Row groups buttons on one keyboard line.
func Row(buttons ...InlineKeyboardButton) []InlineKeyboardButton {
	return buttons
}

func CallbackButton(text, data string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: data}
}

func URLButton(text, url string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, URL: url}
}

// ParseModeHTML is the only parse mode the bot uses.
const ParseModeHTML = "HTML"

// SendOptions are optional fields of sendMessage/editMessageText.
type SendOptions struct {
	ParseMode   string
	ReplyMarkup *InlineKeyboardMarkup
}

// BotInfo is the getMe result.
type BotInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}
