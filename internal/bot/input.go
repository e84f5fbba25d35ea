package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "tg-control-bot/internal/common/errors"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/session"
	tg "tg-control-bot/internal/platform/telegram"
)

// handleText consumes the admin's pending mode. Text from non-admins, or
// from admins with nothing pending, is dropped.
func (d *Dispatcher) handleText(ctx context.Context, msg *tg.Message) error {
	adminID := msg.From.ID
	if !d.IsAdmin(adminID) {
		return nil
	}
	mode, ok := d.Sessions.Get(adminID)
	if !ok {
		return nil
	}

	switch {
	case mode == session.ModeBroadcast:
		return d.runBroadcast(ctx, msg)
	case mode == session.ModeSearch:
		return d.runSearch(ctx, msg)
	case mode.IsAccountEdit():
		return d.editAccounts(ctx, msg, mode)
	case mode.NeedsUserID():
		return d.applyToUser(ctx, msg, mode)
	}
	d.Sessions.Clear(adminID)
	return nil
}

func (d *Dispatcher) runBroadcast(ctx context.Context, msg *tg.Message) error {
	adminID := msg.From.ID
	// Cleared up front so text sent while the run is in progress is not
	// taken as another broadcast.
	d.Sessions.Clear(adminID)

	report, err := d.Broadcast.Run(ctx, adminID, msg.Text)
	if err != nil {
		return err
	}
	return d.send(ctx, msg.Chat.ID, fmt.Sprintf(textBroadcastDone, report.Sent, report.Failed), nil)
}

func (d *Dispatcher) runSearch(ctx context.Context, msg *tg.Message) error {
	defer d.Sessions.Clear(msg.From.ID)

	users, err := d.Users.Search(ctx, strings.TrimSpace(msg.Text), searchLimit)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return d.send(ctx, msg.Chat.ID, textNoResults, nil)
	}
	return d.send(ctx, msg.Chat.ID, formatUsers(users), &tg.SendOptions{ParseMode: tg.ParseModeHTML})
}

func (d *Dispatcher) editAccounts(ctx context.Context, msg *tg.Message, mode session.Mode) error {
	adminID := msg.From.ID
	defer d.Sessions.Clear(adminID)

	name := strings.TrimSpace(msg.Text)
	kind, add := accountTarget(mode)

	var (
		changed bool
		err     error
	)
	if add {
		changed, err = d.Accounts.Add(kind, name)
	} else {
		changed, err = d.Accounts.Remove(kind, name)
	}
	if err != nil {
		return err
	}
	if !changed {
		return d.send(ctx, msg.Chat.ID, textNoChange, nil)
	}
	if err := d.Logs.Append(ctx, adminID, audit.ActionAccountsUpdate, fmt.Sprintf("mode=%s, name=%s", mode, name)); err != nil {
		return err
	}
	return d.send(ctx, msg.Chat.ID, textSaved, withPanel())
}

// applyToUser handles ban, unban and VIP toggling. A non-numeric reply keeps
// the mode so the admin can retry; an unknown id ends it.
func (d *Dispatcher) applyToUser(ctx context.Context, msg *tg.Message, mode session.Mode) error {
	adminID := msg.From.ID
	targetID, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil {
		return d.send(ctx, msg.Chat.ID, textBadUserID, nil)
	}
	defer d.Sessions.Clear(adminID)

	target, err := d.Users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return d.send(ctx, msg.Chat.ID, textUserNotFound, nil)
	}

	var (
		reply  string
		action string
	)
	switch mode {
	case session.ModeBan:
		if err := d.Users.SetBanned(ctx, targetID, true); err != nil {
			return err
		}
		reply, action = textBanned, audit.ActionBan
	case session.ModeUnban:
		if err := d.Users.SetBanned(ctx, targetID, false); err != nil {
			return err
		}
		reply, action = textUnbanned, audit.ActionUnban
	default:
		vip, err := d.Users.ToggleVIP(ctx, targetID)
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsNotFound() {
			return d.send(ctx, msg.Chat.ID, textUserNotFound, nil)
		}
		if err != nil {
			return err
		}
		reply, action = textVIPOff, audit.ActionToggleVIP
		if vip {
			reply = textVIPOn
		}
	}
	if err := d.Logs.Append(ctx, adminID, action, fmt.Sprintf("target=%d", targetID)); err != nil {
		return err
	}
	return d.send(ctx, msg.Chat.ID, reply, nil)
}
