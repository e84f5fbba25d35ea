// Package broadcast fans an admin message out to every non-banned user.
//
// Delivery is sequential and paced: after every attempt, whatever its
// outcome, the run pauses for the interval before the next one. A failed
// recipient is recorded and skipped; nothing is retried and an interrupted
// run is not resumed.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tg-control-bot/internal/domain/audit"
	"tg-control-bot/internal/platform/telegram"
)

// DefaultInterval keeps outbound volume well under the Bot API's global limit.
const DefaultInterval = 30 * time.Millisecond

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts *telegram.SendOptions) (*telegram.Message, error)
}

type Recipients interface {
	ListNonBannedIDs(ctx context.Context) ([]int64, error)
}

type ActionLog interface {
	Append(ctx context.Context, actorID int64, action, extra string) error
}

// Result is the outcome of one delivery attempt.
type Result struct {
	ChatID int64
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

// Report aggregates a finished (or interrupted) run.
type Report struct {
	RunID       string
	Recipients  int
	Sent        int
	Failed      int
	Interrupted bool
	Results     []Result
}

type Service struct {
	recipients Recipients
	sender     Sender
	log        ActionLog
	interval   time.Duration
}

func NewService(recipients Recipients, sender Sender, actionLog ActionLog, interval time.Duration) *Service {
	return &Service{recipients: recipients, sender: sender, log: actionLog, interval: interval}
}

// Run delivers text to the non-banned users present when the run starts and
// appends exactly one broadcast log entry with the counts. Cancelling ctx
// stops the run; recipients not yet attempted are skipped and the report is
// marked Interrupted.
func (s *Service) Run(ctx context.Context, adminID int64, text string) (*Report, error) {
	ids, err := s.recipients.ListNonBannedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("broadcast: list recipients: %w", err)
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Recipients: len(ids),
		Results:    make([]Result, 0, len(ids)),
	}
	logger := log.With().Str("run_id", report.RunID).Int64("admin_id", adminID).Logger()
	logger.Info().Int("recipients", len(ids)).Msg("Broadcast started")

	var wait time.Duration
	for _, id := range ids {
		if err := pause(ctx, wait); err != nil {
			report.Interrupted = true
			break
		}
		res := s.deliver(ctx, id, text)
		wait = s.pauseAfter(res)
		report.Results = append(report.Results, res)
		if res.OK() {
			report.Sent++
		} else {
			report.Failed++
			logger.Debug().Err(res.Err).Int64("chat_id", id).Msg("Broadcast delivery failed")
		}
	}

	extra := fmt.Sprintf("sent=%d, failed=%d", report.Sent, report.Failed)
	// The run's own context may be cancelled by now; the log entry is still due.
	if err := s.log.Append(context.WithoutCancel(ctx), adminID, audit.ActionBroadcast, extra); err != nil {
		logger.Error().Err(err).Msg("Failed to append broadcast log")
	}

	logger.Info().
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Bool("interrupted", report.Interrupted).
		Msg("Broadcast finished")
	return report, nil
}

func (s *Service) deliver(ctx context.Context, chatID int64, text string) Result {
	_, err := s.sender.SendMessage(ctx, chatID, text, nil)
	return Result{ChatID: chatID, Err: err}
}

// pauseAfter is the gap before the next attempt. A flood-control reply
// stretches it to the retry_after Telegram asked for.
func (s *Service) pauseAfter(res Result) time.Duration {
	wait := s.interval
	var apiErr *telegram.APIError
	if errors.As(res.Err, &apiErr) && apiErr.RetryAfter > 0 {
		if ra := time.Duration(apiErr.RetryAfter) * time.Second; ra > wait {
			wait = ra
		}
	}
	return wait
}

func pause(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
