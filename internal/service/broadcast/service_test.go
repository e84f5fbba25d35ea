package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/platform/telegram"
)

type fakeRecipients struct {
	ids []int64
	err error
}

func (f *fakeRecipients) ListNonBannedIDs(context.Context) ([]int64, error) {
	return f.ids, f.err
}

type fakeSender struct {
	mu      sync.Mutex
	failFor map[int64]bool
	errFor  map[int64]error
	delay   time.Duration
	sent    []int64
	times   []time.Time
	ends    []time.Time
	onSend  func(int64)
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, _ string, _ *telegram.SendOptions) (*telegram.Message, error) {
	f.mu.Lock()
	f.sent = append(f.sent, chatID)
	f.times = append(f.times, time.Now())
	f.mu.Unlock()
	if f.onSend != nil {
		f.onSend(chatID)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.ends = append(f.ends, time.Now())
	f.mu.Unlock()
	if err := f.errFor[chatID]; err != nil {
		return nil, err
	}
	if f.failFor[chatID] {
		return nil, &telegram.APIError{Method: "sendMessage", Code: 403, Description: "Forbidden: bot was blocked by the user"}
	}
	return &telegram.Message{MessageID: 1}, nil
}

type logEntry struct {
	actor         int64
	action, extra string
}

type fakeLog struct {
	entries []logEntry
}

func (f *fakeLog) Append(_ context.Context, actorID int64, action, extra string) error {
	f.entries = append(f.entries, logEntry{actorID, action, extra})
	return nil
}

func TestRunCountsFailuresWithoutAborting(t *testing.T) {
	recipients := &fakeRecipients{ids: []int64{1, 2, 3, 4, 5}}
	sender := &fakeSender{failFor: map[int64]bool{2: true, 5: true}}
	actions := &fakeLog{}
	svc := NewService(recipients, sender, actions, 0)

	report, err := svc.Run(context.Background(), 42, "hello")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Sent)
	assert.Equal(t, 2, report.Failed)
	assert.False(t, report.Interrupted)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, sender.sent)
	require.Len(t, report.Results, 5)
	assert.False(t, report.Results[1].OK())
	assert.NotEmpty(t, report.RunID)

	require.Len(t, actions.entries, 1)
	assert.Equal(t, logEntry{42, audit.ActionBroadcast, "sent=3, failed=2"}, actions.entries[0])
}

func TestRunNoRecipients(t *testing.T) {
	actions := &fakeLog{}
	svc := NewService(&fakeRecipients{}, &fakeSender{}, actions, DefaultInterval)

	report, err := svc.Run(context.Background(), 1, "x")
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	assert.Zero(t, report.Failed)
	require.Len(t, actions.entries, 1)
	assert.Equal(t, "sent=0, failed=0", actions.entries[0].extra)
}

func TestRunSnapshotError(t *testing.T) {
	actions := &fakeLog{}
	svc := NewService(&fakeRecipients{err: errors.New("db down")}, &fakeSender{}, actions, 0)

	_, err := svc.Run(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Empty(t, actions.entries)
}

func TestRunPacesAttempts(t *testing.T) {
	interval := 20 * time.Millisecond
	sender := &fakeSender{failFor: map[int64]bool{2: true}}
	svc := NewService(&fakeRecipients{ids: []int64{1, 2, 3}}, sender, &fakeLog{}, interval)

	_, err := svc.Run(context.Background(), 1, "x")
	require.NoError(t, err)

	require.Len(t, sender.times, 3)
	for i := 1; i < len(sender.times); i++ {
		gap := sender.times[i].Sub(sender.ends[i-1])
		assert.GreaterOrEqual(t, gap, interval, "gap %d", i)
	}
}

func TestRunPausesAfterSlowSends(t *testing.T) {
	interval := 30 * time.Millisecond
	sender := &fakeSender{delay: 50 * time.Millisecond}
	svc := NewService(&fakeRecipients{ids: []int64{1, 2, 3, 4}}, sender, &fakeLog{}, interval)

	report, err := svc.Run(context.Background(), 1, "x")
	require.NoError(t, err)
	assert.Equal(t, 4, report.Sent)

	require.Len(t, sender.times, 4)
	require.Len(t, sender.ends, 4)
	for i := 1; i < len(sender.times); i++ {
		gap := sender.times[i].Sub(sender.ends[i-1])
		assert.GreaterOrEqual(t, gap, interval, "gap %d", i)
	}
}

func TestRunHonorsRetryAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	flood := &telegram.APIError{Method: "sendMessage", Code: 429, Description: "Too Many Requests: retry after 5", RetryAfter: 5}
	sender := &fakeSender{errFor: map[int64]error{1: flood}}
	sender.onSend = func(int64) {
		time.AfterFunc(200*time.Millisecond, cancel)
	}
	svc := NewService(&fakeRecipients{ids: []int64{1, 2, 3}}, sender, &fakeLog{}, 10*time.Millisecond)

	report, err := svc.Run(ctx, 1, "x")
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	assert.Equal(t, []int64{1}, sender.sent)
	assert.Equal(t, 1, report.Failed)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sender := &fakeSender{}
	sender.onSend = func(id int64) {
		if id == 2 {
			cancel()
		}
	}
	actions := &fakeLog{}
	svc := NewService(&fakeRecipients{ids: []int64{1, 2, 3, 4}}, sender, actions, time.Millisecond)

	report, err := svc.Run(ctx, 9, "x")
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	assert.Equal(t, []int64{1, 2}, sender.sent)
	assert.Equal(t, 2, report.Sent)
	require.Len(t, actions.entries, 1)
	assert.Equal(t, "sent=2, failed=0", actions.entries[0].extra)
}
