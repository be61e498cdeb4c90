// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

var ErrSendFailed = errors.New("message not delivered")

// Notifier delivers a chat message to a user
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

const (
	// DefaultRequestTimeout bounds a single Bot API call
	DefaultRequestTimeout = 15 * time.Second
	DefaultRetries        = 2
	DefaultRetryInterval  = 500 * time.Millisecond
)

// TelegramNotifier sends HTML messages through the Bot API sendMessage method.
// Network errors, rate limits and server errors are retried with exponential
// backoff; other API errors are final.
type TelegramNotifier struct {
	client *resty.Client
	token  string
	log    *slog.Logger

	Retries       uint64
	RetryInterval time.Duration
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func NewTelegramNotifier(baseURL, token string, log *slog.Logger) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultRequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &TelegramNotifier{
		client:        client,
		token:         token,
		log:           log,
		Retries:       DefaultRetries,
		RetryInterval: DefaultRetryInterval,
	}
}

func (n *TelegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.RetryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, n.Retries), ctx)

	return backoff.RetryNotify(func() error {
		return n.send(ctx, chatID, text)
	}, policy, func(err error, next time.Duration) {
		n.log.Warn("sendMessage failed, retrying", "chat_id", chatID, "retry_in", next, "error", err)
	})
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, text string) error {
	var result apiResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"}).
		SetResult(&result).
		SetError(&result).
		Post("/bot" + n.token + "/sendMessage")
	if err != nil {
		return fmt.Errorf("failed to call sendMessage: %w", err)
	}

	if resp.IsError() || !result.OK {
		err := fmt.Errorf("%w: chat %d: status %d: %s", ErrSendFailed, chatID, resp.StatusCode(), result.Description)
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
			return err
		}
		return backoff.Permanent(err)
	}

	n.log.Debug("message sent", "chat_id", chatID)
	return nil
}

// LogNotifier only logs messages; used for dry runs
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, chatID int64, text string) error {
	n.log.Info("dry run message", "chat_id", chatID, "text", text)
	return nil
}
