package sqlite

import (
	"context"
	"database/sql"

	"tg-control-bot/internal/domain/audit"
)

// LogRepository is the append-only admin action log.
type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository { return &LogRepository{db: db} }

func (r *LogRepository) Append(ctx context.Context, actorID int64, action, extra string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs(user_id, action, extra) VALUES(?, ?, NULLIF(?, ''))`,
		actorID, action, extra)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (r *LogRepository) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.query(ctx, `SELECT id, user_id, action, extra, strftime('%Y-%m-%dT%H:%M:%SZ', created_at)
FROM logs ORDER BY id DESC LIMIT ?`, limit)
}

func (r *LogRepository) ListAll(ctx context.Context) ([]audit.Entry, error) {
	return r.query(ctx, `SELECT id, user_id, action, extra, strftime('%Y-%m-%dT%H:%M:%SZ', created_at)
FROM logs ORDER BY id DESC`)
}

func (r *LogRepository) query(ctx context.Context, q string, args ...any) ([]audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e       audit.Entry
			extra   sql.NullString
			created sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &extra, &created); err != nil {
			return nil, err
		}
		if extra.Valid {
			e.Extra = &extra.String
		}
		e.CreatedAt = parseTime(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
