package bot

// User-facing strings. The bot speaks Arabic to its operators.
const (
	textStopped        = "⛔ البوت في وضع الصيانة أو التوقف حالياً."
	textContactOwner   = "👤 تواصل مع المالك"
	textAdminGreeting  = "أهلاً يا %s 🦇\nلوحتك السرية:"
	textUserGreeting   = "مرحباً 👋\nأنا بوت %s 🦇 — حارس الظلال هنا ✨"
	textHelp           = "/start — بدء\n/help — مساعدة\n/id — عرض آيدي\n"
	textYourID         = "🆔 آيديك: <code>%d</code>"
	textStats          = "📊 <b>الإحصائيات</b>\n- المستخدمون: <b>%d</b>\n- المحظورون: <b>%d</b>\n- VIP: <b>%d</b>"
	textNoUsers        = "لا يوجد مستخدمون بعد."
	textNoLogs         = "لا توجد سجلات بعد."
	textNoResults      = "لا نتائج."
	textAskBroadcast   = "أرسل نص الإذاعة الآن…"
	textAskSearch      = "أرسل كلمة البحث (آيدي/يوزر/اسم)…"
	textAskUserID      = "أرسل آيدي المستخدم:"
	textAskAddAccount  = "أرسل اسم/معرّف الحساب لإضافته:"
	textAskDelAccount  = "أرسل الاسم/المعرّف لحذفه:"
	textChooseAction   = "اختر الإجراء:"
	textChooseKind     = "اختر نوع الحساب:"
	textBroadcastDone  = "تم الإرسال ✅\nنجح: %d • فشل: %d"
	textSaved          = "تم الحفظ ✅"
	textNoChange       = "لم يحدث تغيير."
	textBadUserID      = "أدخل آيدي رقمي صحيح."
	textUserNotFound   = "المستخدم غير موجود بقاعدة البيانات."
	textBanned         = "تم الحظر 🚫"
	textUnbanned       = "تم فك الحظر ✅"
	textVIPOn          = "تم التبديل: 💎 VIP"
	textVIPOff         = "تم التبديل: غير VIP"
	textBackupSent     = "تم إرسال ملفات النسخ الاحتياطي ✅"
	textBackupFailed   = "تعذّر إنشاء النسخة الاحتياطية."
	textMaintenanceOn  = "وضع الصيانة: مفعّل"
	textMaintenanceOff = "وضع الصيانة: متوقف"
	textInstagramTitle = "📸 إنستغرام:"
	textTelegramTitle  = "💬 تيليجرام:"
)
