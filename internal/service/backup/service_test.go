package backup_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-control-bot/internal/common/errors"
	"tg-control-bot/internal/domain/accounts"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/platform/db"
	"tg-control-bot/internal/platform/telegram"
	"tg-control-bot/internal/repository/file"
	"tg-control-bot/internal/repository/sqlite"
	"tg-control-bot/internal/service/backup"
)

type sentDoc struct {
	chatID int64
	name   string
	body   string
}

type recordingSender struct {
	docs []sentDoc
	err  error
}

func (r *recordingSender) SendDocument(_ context.Context, chatID int64, filename string, content io.Reader) error {
	if r.err != nil {
		return r.err
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	r.docs = append(r.docs, sentDoc{chatID, filename, string(b)})
	return nil
}

func openRepos(t *testing.T, dir string) (*sqlite.UserRepository, *sqlite.LogRepository) {
	t.Helper()
	conn, err := db.Open(context.Background(), filepath.Join(dir, "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return sqlite.NewUserRepository(conn), sqlite.NewLogRepository(conn)
}

func TestExportWritesAndSendsThreeFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	users, logs := openRepos(t, dir)
	require.NoError(t, users.Upsert(ctx, 5, "alfred", "Alfred", "Pennyworth"))
	require.NoError(t, logs.Append(ctx, 1, audit.ActionStats, ""))

	store, err := file.OpenAccountStore(filepath.Join(dir, "accounts.json"))
	require.NoError(t, err)
	_, err = store.Add(accounts.KindInstagram, "wayne")
	require.NoError(t, err)

	sender := &recordingSender{}
	svc := backup.NewService(filepath.Join(dir, "exports"), users, logs, store, sender)

	paths, err := svc.Export(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	require.Len(t, sender.docs, 3)
	assert.Equal(t, backup.UsersFile, sender.docs[0].name)
	assert.Equal(t, backup.LogsFile, sender.docs[1].name)
	assert.Equal(t, backup.AccountsFile, sender.docs[2].name)

	onDisk, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, sender.docs[0].body, string(onDisk))

	var exported []map[string]any
	require.NoError(t, json.Unmarshal(onDisk, &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "alfred", exported[0]["username"])

	assert.JSONEq(t, `{"instagram":["wayne"],"telegram":[]}`, sender.docs[2].body)

	recent, err := logs.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionBackup, recent[0].Action)
}

func TestExportSendFailureIsTelegramError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	users, logs := openRepos(t, dir)
	store, err := file.OpenAccountStore(filepath.Join(dir, "accounts.json"))
	require.NoError(t, err)

	sender := &recordingSender{err: &telegram.APIError{Method: "sendDocument", Code: 400, Description: "Bad Request: chat not found"}}
	svc := backup.NewService(filepath.Join(dir, "exports"), users, logs, store, sender)

	paths, err := svc.Export(ctx, 1, 1)
	require.Error(t, err)
	assert.Len(t, paths, 1)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTelegramAPI, appErr.Code)
	var apiErr *telegram.APIError
	assert.ErrorAs(t, err, &apiErr)

	recent, err := logs.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestExportWriteFailureIsStorageError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	users, logs := openRepos(t, dir)
	store, err := file.OpenAccountStore(filepath.Join(dir, "accounts.json"))
	require.NoError(t, err)

	exports := filepath.Join(dir, "exports")
	require.NoError(t, os.MkdirAll(filepath.Join(exports, backup.UsersFile), 0o755))
	sender := &recordingSender{}
	svc := backup.NewService(exports, users, logs, store, sender)

	_, err = svc.Export(ctx, 1, 1)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStorageError, appErr.Code)
	assert.Empty(t, sender.docs)
}
