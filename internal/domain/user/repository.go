package user

import "context"

// Repository defines persistence operations for the user roster.
type Repository interface {
	// Upsert inserts a user or refreshes its name fields. Ban, VIP and join
	// time of an existing row are left untouched.
	Upsert(ctx context.Context, id int64, username, firstName, lastName string) error
	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id int64) (*User, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	// ToggleVIP flips the VIP flag and returns the new value.
	ToggleVIP(ctx context.Context, id int64) (bool, error)
	ListNonBannedIDs(ctx context.Context) ([]int64, error)
	ListRecent(ctx context.Context, limit int) ([]User, error)
	Search(ctx context.Context, query string, limit int) ([]User, error)
	ListAll(ctx context.Context) ([]User, error)
	Stats(ctx context.Context) (Stats, error)
}
