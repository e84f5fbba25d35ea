package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "tg-control-bot/internal/common/errors"
	domain "tg-control-bot/internal/domain/user"
)

// joined_at is rendered as RFC 3339 text so scanning does not depend on the
// driver's timestamp parsing.
const userColumns = `user_id, IFNULL(username, ''), IFNULL(first_name, ''), IFNULL(last_name, ''),
	is_banned, is_vip, strftime('%Y-%m-%dT%H:%M:%SZ', joined_at)`

// UserRepository persists the user roster in SQLite.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

// Upsert inserts a user or refreshes username and names of an existing one.
func (r *UserRepository) Upsert(ctx context.Context, id int64, username, firstName, lastName string) error {
	const q = `
INSERT INTO users(user_id, username, first_name, last_name)
VALUES(?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
ON CONFLICT(user_id) DO UPDATE SET
	username = excluded.username,
	first_name = excluded.first_name,
	last_name = excluded.last_name`
	_, err := r.db.ExecContext(ctx, q, id, username, firstName, lastName)
	return err
}

// GetByID returns a user by Telegram ID, or nil if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_banned = ? WHERE user_id = ?`, boolToInt(banned), id)
	return err
}

// ToggleVIP flips is_vip in one statement and returns the stored value.
func (r *UserRepository) ToggleVIP(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE users SET is_vip = CASE WHEN is_vip = 1 THEN 0 ELSE 1 END WHERE user_id = ? RETURNING is_vip`
	var vip int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&vip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, apperrors.NewUserNotFoundError(id)
		}
		return false, err
	}
	return vip == 1, nil
}

func (r *UserRepository) ListNonBannedIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM users WHERE is_banned = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRecent returns the most recently joined users first.
func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY joined_at DESC, user_id DESC LIMIT ?`, limit)
}

// Search matches query as a case-sensitive substring of the id, username,
// first name or last name.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 30
	}
	const where = `
WHERE instr(CAST(user_id AS TEXT), ?1) > 0
   OR instr(IFNULL(username, ''), ?1) > 0
   OR instr(IFNULL(first_name, ''), ?1) > 0
   OR instr(IFNULL(last_name, ''), ?1) > 0`
	return r.query(ctx, `SELECT `+userColumns+` FROM users`+where+` ORDER BY user_id LIMIT ?2`, query, limit)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
}

func (r *UserRepository) Stats(ctx context.Context) (domain.Stats, error) {
	const q = `SELECT COUNT(*), IFNULL(SUM(is_banned = 1), 0), IFNULL(SUM(is_vip = 1), 0) FROM users`
	var s domain.Stats
	err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Banned, &s.VIP)
	return s, err
}

func (r *UserRepository) query(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		u           domain.User
		banned, vip int
		joined      sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &banned, &vip, &joined); err != nil {
		return nil, err
	}
	u.IsBanned = banned == 1
	u.IsVIP = vip == 1
	u.JoinedAt = parseTime(joined)
	return &u, nil
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
