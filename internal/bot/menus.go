package bot

import (
	"tg-control-bot/internal/domain/accounts"
	tg "tg-control-bot/internal/platform/telegram"
)

// Callback data values.
const (
	cbRefresh          = "adm_refresh"
	cbStats            = "adm_stats"
	cbUsers            = "adm_users"
	cbBroadcast        = "adm_broadcast"
	cbSearch           = "adm_search"
	cbBanMenu          = "adm_ban_menu"
	cbBan              = "adm_ban"
	cbUnban            = "adm_unban"
	cbVIP              = "adm_vip"
	cbLogs             = "adm_logs"
	cbAccounts         = "adm_accounts"
	cbBackup           = "adm_backup"
	cbToggleMaint      = "adm_toggle_maint"
	cbNoop             = "noop"
	cbAccountsPrefix   = "acc_"
	cbAccountAddSuffix = "_add"
	cbAccountDelSuffix = "_del"
)

func adminPanel() *tg.InlineKeyboardMarkup {
	return tg.Keyboard(
		tg.Row(tg.CallbackButton("📊 الإحصائيات", cbStats), tg.CallbackButton("👥 المستخدمون", cbUsers)),
		tg.Row(tg.CallbackButton("📣 إذاعة", cbBroadcast), tg.CallbackButton("🔍 بحث", cbSearch)),
		tg.Row(tg.CallbackButton("🚫 حظر/✅ فك", cbBanMenu), tg.CallbackButton("💎 تبديل VIP", cbVIP)),
		tg.Row(tg.CallbackButton("🧩 الحسابات", cbAccounts), tg.CallbackButton("📝 السجلّات", cbLogs)),
		tg.Row(tg.CallbackButton("🧰 نسخ احتياطي", cbBackup), tg.CallbackButton("♻️ صيانة: تبديل", cbToggleMaint)),
		tg.Row(tg.CallbackButton("🔄 تحديث اللوحة", cbRefresh)),
	)
}

func banMenu() *tg.InlineKeyboardMarkup {
	return tg.Keyboard(
		tg.Row(tg.CallbackButton("🚫 حظر مستخدم", cbBan)),
		tg.Row(tg.CallbackButton("✅ فك الحظر", cbUnban)),
		tg.Row(tg.CallbackButton("🔙 رجوع", cbRefresh)),
	)
}

func accountsMenu() *tg.InlineKeyboardMarkup {
	return tg.Keyboard(
		tg.Row(
			tg.CallbackButton("📸 إنستغرام", cbAccountsPrefix+string(accounts.KindInstagram)),
			tg.CallbackButton("💬 تيليجرام", cbAccountsPrefix+string(accounts.KindTelegram)),
		),
		tg.Row(tg.CallbackButton("🔙 رجوع", cbRefresh)),
	)
}

// accountListMenu shows one button per handle followed by add/delete controls.
func accountListMenu(kind accounts.Kind, items []string) *tg.InlineKeyboardMarkup {
	rows := make([][]tg.InlineKeyboardButton, 0, len(items)+2)
	for _, item := range items {
		rows = append(rows, tg.Row(tg.CallbackButton("• "+item, cbNoop)))
	}
	if len(items) == 0 {
		rows = append(rows, tg.Row(tg.CallbackButton("— لا يوجد —", cbNoop)))
	}
	prefix := cbAccountsPrefix + string(kind)
	rows = append(rows,
		tg.Row(tg.CallbackButton("➕ إضافة", prefix+cbAccountAddSuffix), tg.CallbackButton("➖ حذف", prefix+cbAccountDelSuffix)),
		tg.Row(tg.CallbackButton("🔙 رجوع", cbAccounts)),
	)
	return tg.Keyboard(rows...)
}

func stoppedMenu(contactURL string) *tg.InlineKeyboardMarkup {
	return tg.Keyboard(tg.Row(tg.URLButton(textContactOwner, contactURL)))
}
