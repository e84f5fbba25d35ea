package http_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-control-bot/internal/common/config"
	"tg-control-bot/internal/domain/accounts"
	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/domain/user"
	apphttp "tg-control-bot/internal/http"
	redisp "tg-control-bot/internal/platform/redis"
	"tg-control-bot/internal/platform/telegram"
	"tg-control-bot/internal/service/dedup"
)

const (
	botToken = "123:abc"
	secret   = "s3cret"
	adminID  = int64(42)
)

type fakeDispatcher struct {
	mu      sync.Mutex
	updates []int64
	err     error
}

func (f *fakeDispatcher) Handle(_ context.Context, upd *telegram.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd.UpdateID)
	return f.err
}

type fakeUsers struct {
	stats  user.Stats
	recent []user.User
	query  string
	limit  int
}

func (f *fakeUsers) Stats(context.Context) (user.Stats, error) { return f.stats, nil }

func (f *fakeUsers) ListRecent(_ context.Context, limit int) ([]user.User, error) {
	f.limit = limit
	return f.recent, nil
}

func (f *fakeUsers) Search(_ context.Context, q string, limit int) ([]user.User, error) {
	f.query, f.limit = q, limit
	return nil, nil
}

type fakeLogs struct{}

func (fakeLogs) ListRecent(context.Context, int) ([]audit.Entry, error) {
	return nil, nil
}

type fakeAccounts struct{ lists accounts.Lists }

func (f fakeAccounts) Snapshot() accounts.Lists { return f.lists }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Bot.Name = "Batman"
	cfg.Bot.Token = botToken
	cfg.Bot.AdminIDs = []int64{adminID}
	cfg.Bot.InitDataTTL = time.Hour
	cfg.Webhook.Secret = secret
	cfg.Server.Origin = "*"
	return cfg
}

type testServer struct {
	router     http.Handler
	dispatcher *fakeDispatcher
	users      *fakeUsers
}

func newServer(t *testing.T, mutate func(*apphttp.Deps)) *testServer {
	t.Helper()
	s := &testServer{
		dispatcher: &fakeDispatcher{},
		users:      &fakeUsers{stats: user.Stats{Total: 3, Banned: 1, VIP: 2}},
	}
	deps := apphttp.Deps{
		Config:     testConfig(),
		Base:       context.Background(),
		Dispatcher: s.dispatcher,
		Users:      s.users,
		Logs:       fakeLogs{},
		Accounts:   fakeAccounts{lists: accounts.Lists{Instagram: []string{"wayne.ent"}}},
	}
	if mutate != nil {
		mutate(&deps)
	}
	s.router = apphttp.NewRouter(deps)
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func webhookRequest(token, secretHeader, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook/"+token, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secretHeader != "" {
		req.Header.Set(apphttp.SecretHeader, secretHeader)
	}
	return req
}

const updateBody = `{"update_id": 7, "message": {"message_id": 1, "from": {"id": 5, "is_bot": false, "first_name": "A"}, "chat": {"id": 5, "type": "private"}, "date": 0, "text": "/start"}}`

func TestWebhookRejectsWrongSecret(t *testing.T) {
	s := newServer(t, nil)

	for _, header := range []string{"", "wrong"} {
		rec := s.do(webhookRequest(botToken, header, updateBody))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"detail": "Invalid secret"}`, rec.Body.String())
	}
	assert.Empty(t, s.dispatcher.updates)
}

func TestWebhookDispatches(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(webhookRequest(botToken, secret, updateBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
	assert.Equal(t, []int64{7}, s.dispatcher.updates)
}

func TestWebhookHandlerErrorStillAcknowledged(t *testing.T) {
	s := newServer(t, nil)
	s.dispatcher.err = errors.New("db is locked")

	rec := s.do(webhookRequest(botToken, secret, updateBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.dispatcher.updates, 1)
}

func TestWebhookUnknownTokenPath(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(webhookRequest("999:zzz", secret, updateBody))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.dispatcher.updates)
}

func TestWebhookMalformedBody(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(webhookRequest(botToken, secret, "{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.dispatcher.updates)
}

func TestWebhookSkipsDuplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisp.Open(context.Background(), redisp.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := newServer(t, func(d *apphttp.Deps) {
		d.Dedup = dedup.NewRedisGuard(client, time.Minute)
	})

	for i := 0; i < 2; i++ {
		rec := s.do(webhookRequest(botToken, secret, updateBody))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []int64{7}, s.dispatcher.updates)
}

func TestRootStatus(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Batman", body["bot"])
	assert.NotContains(t, body["webhook"], botToken)
}

func TestReady(t *testing.T) {
	healthy := newServer(t, func(d *apphttp.Deps) {
		d.Checks = []apphttp.Check{{Name: "sqlite", Ping: func(context.Context) error { return nil }}}
	})
	rec := healthy.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	broken := newServer(t, func(d *apphttp.Deps) {
		d.Checks = []apphttp.Check{{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}}
	})
	rec = broken.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis unavailable")
}

// signInitData builds Mini App init data signed the way Telegram does it.
func signInitData(t *testing.T, userID int64) string {
	t.Helper()
	vals := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      fmt.Sprintf(`{"id":%d,"first_name":"Bruce","username":"bruce"}`, userID),
	}
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+vals[k])
	}

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secretKey.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	q := url.Values{}
	for k, v := range vals {
		q.Set(k, v)
	}
	q.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return q.Encode()
}

func adminRequest(t *testing.T, path string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != 0 {
		req.Header.Set("X-Telegram-Init-Data", signInitData(t, userID))
	}
	return req
}

func TestAdminAPIAuth(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(adminRequest(t, "/api/v1/admin/stats", 0))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tampered := adminRequest(t, "/api/v1/admin/stats", adminID)
	tampered.Header.Set("X-Telegram-Init-Data", strings.Replace(tampered.Header.Get("X-Telegram-Init-Data"), "Bruce", "Alfred", 1))
	rec = s.do(tampered)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(adminRequest(t, "/api/v1/admin/stats", 5))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(adminRequest(t, "/api/v1/admin/stats", adminID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total": 3, "banned": 1, "vip": 2}`, rec.Body.String())
}

func TestAdminUsers(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(adminRequest(t, "/api/v1/admin/users?q=wayne&limit=5", adminID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, "wayne", s.users.query)
	assert.Equal(t, 5, s.users.limit)

	rec = s.do(adminRequest(t, "/api/v1/admin/users?limit=0", adminID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAdminAccounts(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(adminRequest(t, "/api/v1/admin/accounts", adminID))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"instagram": ["wayne.ent"], "telegram": []}`, rec.Body.String())
}

func TestAdminResponsesCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisp.Open(context.Background(), redisp.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := newServer(t, func(d *apphttp.Deps) { d.Cache = client })

	rec := s.do(adminRequest(t, "/api/v1/admin/stats", adminID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	s.users.stats = user.Stats{Total: 100}
	rec = s.do(adminRequest(t, "/api/v1/admin/stats", adminID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"total": 3, "banned": 1, "vip": 2}`, rec.Body.String())
}
