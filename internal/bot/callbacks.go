package bot

import (
	"context"
	"fmt"
	"strings"

	"tg-control-bot/internal/domain/accounts"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/session"
	tg "tg-control-bot/internal/platform/telegram"
)

func withPanel() *tg.SendOptions { return &tg.SendOptions{ReplyMarkup: adminPanel()} }

func (d *Dispatcher) handleCallback(ctx context.Context, q *tg.CallbackQuery) error {
	if err := d.Messenger.AnswerCallbackQuery(ctx, q.ID); err != nil {
		d.logger.Warn().Err(err).Str("callback_id", q.ID).Msg("Failed to answer callback")
	}

	adminID := q.From.ID
	if !d.IsAdmin(adminID) {
		return d.edit(ctx, q.Message, textStopped, &tg.SendOptions{ReplyMarkup: stoppedMenu(d.opts.ContactURL)})
	}

	switch data := q.Data; data {
	case cbRefresh:
		if q.Message == nil {
			return nil
		}
		return ignoreNotModified(d.Messenger.EditMessageReplyMarkup(ctx, q.Message.Chat.ID, q.Message.MessageID, adminPanel()))

	case cbStats:
		st, err := d.Users.Stats(ctx)
		if err != nil {
			return err
		}
		if err := d.Logs.Append(ctx, adminID, audit.ActionStats, ""); err != nil {
			return err
		}
		return d.edit(ctx, q.Message, fmt.Sprintf(textStats, st.Total, st.Banned, st.VIP),
			&tg.SendOptions{ParseMode: tg.ParseModeHTML, ReplyMarkup: adminPanel()})

	case cbUsers:
		users, err := d.Users.ListRecent(ctx, recentUsersLimit)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return d.edit(ctx, q.Message, textNoUsers, withPanel())
		}
		return d.edit(ctx, q.Message, formatUsers(users), &tg.SendOptions{ParseMode: tg.ParseModeHTML, ReplyMarkup: adminPanel()})

	case cbBroadcast:
		return d.prompt(ctx, q, session.ModeBroadcast, textAskBroadcast)
	case cbSearch:
		return d.prompt(ctx, q, session.ModeSearch, textAskSearch)

	case cbBanMenu:
		return d.edit(ctx, q.Message, textChooseAction, &tg.SendOptions{ReplyMarkup: banMenu()})
	case cbBan:
		return d.prompt(ctx, q, session.ModeBan, textAskUserID)
	case cbUnban:
		return d.prompt(ctx, q, session.ModeUnban, textAskUserID)
	case cbVIP:
		return d.prompt(ctx, q, session.ModeVIP, textAskUserID)

	case cbLogs:
		entries, err := d.Logs.ListRecent(ctx, recentLogsLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return d.edit(ctx, q.Message, textNoLogs, withPanel())
		}
		return d.edit(ctx, q.Message, formatLogs(entries), withPanel())

	case cbAccounts:
		return d.edit(ctx, q.Message, textChooseKind, &tg.SendOptions{ReplyMarkup: accountsMenu()})

	case cbBackup:
		if _, err := d.Backup.Export(ctx, adminID, adminID); err != nil {
			d.logger.Error().Err(err).Int64("admin_id", adminID).Msg("Backup export failed")
			return d.edit(ctx, q.Message, textBackupFailed, withPanel())
		}
		return d.edit(ctx, q.Message, textBackupSent, withPanel())

	case cbToggleMaint:
		on, err := d.Maintenance.ToggleMaintenance(ctx)
		if err != nil {
			return err
		}
		if err := d.Logs.Append(ctx, adminID, audit.ActionToggleMaintenance, fmt.Sprintf("value=%t", on)); err != nil {
			return err
		}
		text := textMaintenanceOff
		if on {
			text = textMaintenanceOn
		}
		return d.edit(ctx, q.Message, text, withPanel())

	case cbNoop:
		return nil

	default:
		if strings.HasPrefix(data, cbAccountsPrefix) {
			return d.handleAccountCallback(ctx, q, strings.TrimPrefix(data, cbAccountsPrefix))
		}
		d.logger.Debug().Str("data", data).Msg("Unknown callback data")
		return nil
	}
}

// handleAccountCallback serves acc_<kind>, acc_<kind>_add and acc_<kind>_del.
func (d *Dispatcher) handleAccountCallback(ctx context.Context, q *tg.CallbackQuery, rest string) error {
	name, action, _ := strings.Cut(rest, "_")
	kind, err := accounts.ParseKind(name)
	if err != nil {
		d.logger.Debug().Str("data", q.Data).Msg("Unknown account callback")
		return nil
	}

	switch action {
	case "":
		title := textInstagramTitle
		if kind == accounts.KindTelegram {
			title = textTelegramTitle
		}
		return d.edit(ctx, q.Message, title, &tg.SendOptions{ReplyMarkup: accountListMenu(kind, d.Accounts.List(kind))})
	case "add":
		return d.prompt(ctx, q, accountMode(kind, true), textAskAddAccount)
	case "del":
		return d.prompt(ctx, q, accountMode(kind, false), textAskDelAccount)
	}
	return nil
}

// prompt arms mode for the admin, replacing any pending one.
func (d *Dispatcher) prompt(ctx context.Context, q *tg.CallbackQuery, mode session.Mode, text string) error {
	d.Sessions.Set(q.From.ID, mode)
	return d.edit(ctx, q.Message, text, withPanel())
}

func accountMode(kind accounts.Kind, add bool) session.Mode {
	switch {
	case kind == accounts.KindInstagram && add:
		return session.ModeAddInsta
	case kind == accounts.KindInstagram:
		return session.ModeDelInsta
	case add:
		return session.ModeAddTG
	default:
		return session.ModeDelTG
	}
}

// accountTarget is the inverse of accountMode.
func accountTarget(mode session.Mode) (kind accounts.Kind, add bool) {
	switch mode {
	case session.ModeAddInsta:
		return accounts.KindInstagram, true
	case session.ModeDelInsta:
		return accounts.KindInstagram, false
	case session.ModeAddTG:
		return accounts.KindTelegram, true
	default:
		return accounts.KindTelegram, false
	}
}
