// Package bot routes Telegram updates: user commands, the admin panel
// callbacks and the per-admin pending input modes.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tg-control-bot/internal/domain/accounts"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/session"
	"tg-control-bot/internal/domain/user"
	tg "tg-control-bot/internal/platform/telegram"
	"tg-control-bot/internal/service/broadcast"
)

// Messenger is the outbound part of the Bot API the dispatcher needs.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts *tg.SendOptions) (*tg.Message, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, opts *tg.SendOptions) error
	EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *tg.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

type Broadcaster interface {
	Run(ctx context.Context, adminID int64, text string) (*broadcast.Report, error)
}

type Backuper interface {
	Export(ctx context.Context, adminID, chatID int64) ([]string, error)
}

type Maintenance interface {
	Maintenance(ctx context.Context) (bool, error)
	ToggleMaintenance(ctx context.Context) (bool, error)
}

type AccountLists interface {
	List(kind accounts.Kind) []string
	Add(kind accounts.Kind, handle string) (bool, error)
	Remove(kind accounts.Kind, handle string) (bool, error)
}

// Deps wires the dispatcher to its collaborators.
type Deps struct {
	Messenger   Messenger
	Users       user.Repository
	Logs        audit.Repository
	Sessions    session.Store
	Accounts    AccountLists
	Maintenance Maintenance
	Broadcast   Broadcaster
	Backup      Backuper
}

type Options struct {
	BotName string
	// Username is the bot's @username from getMe. Commands suffixed with a
	// different bot's username are ignored.
	Username   string
	ContactURL string
	AdminIDs   []int64
}

const (
	recentUsersLimit = 20
	recentLogsLimit  = 20
	searchLimit      = 30
)

type Dispatcher struct {
	Deps
	opts   Options
	admins map[int64]struct{}
	logger zerolog.Logger
}

func NewDispatcher(deps Deps, opts Options) *Dispatcher {
	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Dispatcher{
		Deps:   deps,
		opts:   opts,
		admins: admins,
		logger: log.With().Str("component", "dispatcher").Logger(),
	}
}

func (d *Dispatcher) IsAdmin(id int64) bool {
	_, ok := d.admins[id]
	return ok
}

// Handle processes one update. The sender is upserted before anything else.
// Long-running work such as a broadcast runs on ctx, so callers should pass a
// context that outlives the inbound request.
func (d *Dispatcher) Handle(ctx context.Context, upd *tg.Update) error {
	if upd == nil {
		return nil
	}
	if from := upd.Sender(); from != nil {
		if err := d.Users.Upsert(ctx, from.ID, from.Username, from.FirstName, from.LastName); err != nil {
			return fmt.Errorf("upsert user %d: %w", from.ID, err)
		}
	}

	switch {
	case upd.CallbackQuery != nil:
		return d.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		if cmd := upd.Message.Command(); cmd != "" {
			if !upd.Message.AddressedTo(d.opts.Username) {
				return nil
			}
			return d.handleCommand(ctx, upd.Message, cmd)
		}
		if upd.Message.Text != "" {
			return d.handleText(ctx, upd.Message)
		}
	}
	return nil
}

func (d *Dispatcher) handleCommand(ctx context.Context, msg *tg.Message, cmd string) error {
	from := msg.From
	admin := d.IsAdmin(from.ID)

	if !admin {
		stopped, err := d.stoppedFor(ctx, from.ID, cmd == "start")
		if err != nil {
			return err
		}
		if stopped {
			return d.send(ctx, msg.Chat.ID, textStopped, &tg.SendOptions{ReplyMarkup: stoppedMenu(d.opts.ContactURL)})
		}
	}

	switch cmd {
	case "start":
		if admin {
			return d.send(ctx, msg.Chat.ID, fmt.Sprintf(textAdminGreeting, d.opts.BotName), &tg.SendOptions{ReplyMarkup: adminPanel()})
		}
		return d.send(ctx, msg.Chat.ID, fmt.Sprintf(textUserGreeting, d.opts.BotName), nil)
	case "help":
		return d.send(ctx, msg.Chat.ID, textHelp, nil)
	case "id":
		return d.send(ctx, msg.Chat.ID, fmt.Sprintf(textYourID, from.ID), &tg.SendOptions{ParseMode: tg.ParseModeHTML})
	}
	return nil
}

// stoppedFor reports whether a non-admin gets the paused notice. Maintenance
// pauses every command; a ban only blocks /start.
func (d *Dispatcher) stoppedFor(ctx context.Context, userID int64, checkBan bool) (bool, error) {
	on, err := d.Maintenance.Maintenance(ctx)
	if err != nil {
		return false, err
	}
	if on || !checkBan {
		return on, nil
	}
	u, err := d.Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsBanned, nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string, opts *tg.SendOptions) error {
	_, err := d.Messenger.SendMessage(ctx, chatID, text, opts)
	return err
}

// edit replaces a callback's message. Re-rendering an unchanged panel is not
// an error.
func (d *Dispatcher) edit(ctx context.Context, msg *tg.Message, text string, opts *tg.SendOptions) error {
	if msg == nil {
		return nil
	}
	return ignoreNotModified(d.Messenger.EditMessageText(ctx, msg.Chat.ID, msg.MessageID, text, opts))
}

func ignoreNotModified(err error) error {
	var apiErr *tg.APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message is not modified") {
		return nil
	}
	return err
}
