// Package backup exports the roster, the action log and the account lists as
// JSON files and delivers them to the requesting admin.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tg-control-bot/internal/common/errors"
	"tg-control-bot/internal/domain/accounts"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/user"
)

const (
	UsersFile    = "users_export.json"
	LogsFile     = "logs_export.json"
	AccountsFile = "accounts_export.json"
)

type Users interface {
	ListAll(ctx context.Context) ([]user.User, error)
}

type Logs interface {
	ListAll(ctx context.Context) ([]audit.Entry, error)
	Append(ctx context.Context, actorID int64, action, extra string) error
}

type Accounts interface {
	Snapshot() accounts.Lists
}

type DocumentSender interface {
	SendDocument(ctx context.Context, chatID int64, filename string, content io.Reader) error
}

type Service struct {
	dir      string
	users    Users
	logs     Logs
	accounts Accounts
	sender   DocumentSender
}

func NewService(dir string, users Users, logs Logs, accts Accounts, sender DocumentSender) *Service {
	return &Service{dir: dir, users: users, logs: logs, accounts: accts, sender: sender}
}

// Export writes the three export files under the data directory, sends each
// to chatID as a document and records a backup log entry. It returns the
// written paths.
func (s *Service) Export(ctx context.Context, adminID, chatID int64) ([]string, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: list users: %w", err)
	}
	entries, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: list logs: %w", err)
	}
	if users == nil {
		users = []user.User{}
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	lists := s.accounts.Snapshot()
	if lists.Instagram == nil {
		lists.Instagram = []string{}
	}
	if lists.Telegram == nil {
		lists.Telegram = []string{}
	}

	docs := []struct {
		name string
		v    any
	}{
		{UsersFile, users},
		{LogsFile, entries},
		{AccountsFile, lists},
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errors.NewStorageError("create backup dir", err)
	}
	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		b, err := marshal(d.v)
		if err != nil {
			return nil, fmt.Errorf("backup: encode %s: %w", d.name, err)
		}
		path := filepath.Join(s.dir, d.name)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeStorageError, "Failed to write %s", d.name)
		}
		paths = append(paths, path)
		if err := s.sender.SendDocument(ctx, chatID, d.name, bytes.NewReader(b)); err != nil {
			return paths, errors.NewTelegramAPIError("send "+d.name, err)
		}
	}

	if err := s.logs.Append(ctx, adminID, audit.ActionBackup, ""); err != nil {
		return paths, fmt.Errorf("backup: log: %w", err)
	}
	return paths, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
