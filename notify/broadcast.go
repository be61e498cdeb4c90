// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Pauses between two messages of a broadcast, to stay under the bot rate limit
const (
	DefaultSuccessPause = 300 * time.Millisecond
	DefaultErrorPause   = time.Second
)

// Report summarizes a broadcast
type Report struct {
	Total     int
	Sent      int
	Failed    int
	Skipped   int
	FailedIDs []int64
}

// Broadcaster sends one message per user, sequentially and paced
type Broadcaster struct {
	notifier     Notifier
	clock        clockwork.Clock
	log          *slog.Logger
	SuccessPause time.Duration
	ErrorPause   time.Duration
}

func NewBroadcaster(notifier Notifier, clock clockwork.Clock, log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		notifier:     notifier,
		clock:        clock,
		log:          log,
		SuccessPause: DefaultSuccessPause,
		ErrorPause:   DefaultErrorPause,
	}
}

// Broadcast sends text(id) to every id. An empty text skips the user.
// A failed send is counted and logged; the broadcast goes on.
func (b *Broadcaster) Broadcast(ctx context.Context, ids []int64, text func(id int64) (string, error)) (Report, error) {
	report := Report{Total: len(ids)}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		msg, err := text(id)
		if err != nil {
			return report, err
		}
		if msg == "" {
			b.log.Warn("nothing to send", "chat_id", id)
			report.Skipped++
			continue
		}

		pause := b.SuccessPause
		if err := b.notifier.Send(ctx, id, msg); err != nil {
			b.log.Error("failed to send message", "progress", progress(i, len(ids)), "chat_id", id, "error", err)
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, id)
			pause = b.ErrorPause
		} else {
			b.log.Info("message sent", "progress", progress(i, len(ids)), "chat_id", id)
			report.Sent++
		}

		if i < len(ids)-1 {
			if err := b.wait(ctx, pause); err != nil {
				return report, err
			}
		}
	}

	return report, nil
}

func (b *Broadcaster) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.clock.After(d):
		return nil
	}
}

func progress(i, n int) string {
	return fmt.Sprintf("%d/%d", i+1, n)
}
