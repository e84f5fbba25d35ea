package session

// Mode tells how an admin's next free-text message is interpreted.
type Mode string

const (
	ModeBroadcast Mode = "broadcast_wait"
	ModeSearch    Mode = "search_wait"
	ModeAddInsta  Mode = "add_insta"
	ModeAddTG     Mode = "add_tg"
	ModeDelInsta  Mode = "del_insta"
	ModeDelTG     Mode = "del_tg"
	ModeBan       Mode = "ban_wait"
	ModeUnban     Mode = "unban_wait"
	ModeVIP       Mode = "vip_wait"
)

// NeedsUserID reports whether the mode expects a numeric user id.
func (m Mode) NeedsUserID() bool {
	return m == ModeBan || m == ModeUnban || m == ModeVIP
}

// IsAccountEdit reports whether the mode edits an account list.
func (m Mode) IsAccountEdit() bool {
	switch m {
	case ModeAddInsta, ModeAddTG, ModeDelInsta, ModeDelTG:
		return true
	}
	return false
}

// Store keeps at most one pending mode per admin.
type Store interface {
	Get(adminID int64) (Mode, bool)
	// Set replaces any mode already pending for the admin.
	Set(adminID int64, mode Mode)
	Clear(adminID int64)
}
