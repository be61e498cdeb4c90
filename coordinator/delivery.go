// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/secret-post/metrics"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/store"
)

// audience picks the configured test recipients in test mode
func (s *Service) audience(testMode bool, all func() ([]int64, error)) ([]int64, error) {
	if testMode {
		s.log.Info("test mode: sending to test recipients only", "count", len(s.cfg.TestRecipients))
		return s.cfg.TestRecipients, nil
	}
	return all()
}

// SendAssignments tells every confirmed user who they write to.
// Users without recipients are skipped.
func (s *Service) SendAssignments(ctx context.Context, testMode bool) (notify.Report, error) {
	ids, err := s.audience(testMode, func() ([]int64, error) {
		return s.store.ConfirmedUserIDs(ctx)
	})
	if err != nil {
		return notify.Report{}, err
	}

	report, err := s.broadcaster.Broadcast(ctx, ids, func(id int64) (string, error) {
		assignments, err := s.store.RecipientsFor(ctx, id)
		if err != nil {
			return "", err
		}
		if len(assignments) == 0 {
			return "", nil
		}

		recipients := make([]models.User, 0, len(assignments))
		for _, a := range assignments {
			u, err := s.lookup(ctx, a.Recipient)
			if err != nil {
				return "", err
			}
			recipients = append(recipients, u)
		}
		return AssignmentsText(recipients), nil
	})
	metrics.RecordMessages("assignments", report.Sent, report.Failed)
	return report, err
}

// SendReminder sends the drop-off instructions to every sender
func (s *Service) SendReminder(ctx context.Context, testMode bool) (notify.Report, error) {
	ids, err := s.audience(testMode, func() ([]int64, error) {
		return s.store.Senders(ctx)
	})
	if err != nil {
		return notify.Report{}, err
	}
	ids = lo.Uniq(ids)

	s.log.Info("sending reminder", "senders", len(ids))
	report, err := s.broadcaster.Broadcast(ctx, ids, func(int64) (string, error) {
		return ReminderText, nil
	})
	metrics.RecordMessages("reminder", report.Sent, report.Failed)
	return report, err
}

// MarkSent records that the sender dropped off the letter and schedules
// the recipient's notification. It returns when the notification is due.
func (s *Service) MarkSent(ctx context.Context, sender, recipient int64) (time.Time, error) {
	err := s.store.TransitionStatus(ctx, sender, recipient, models.StatusPending, models.StatusSent)
	if errors.Is(err, store.ErrStatusMismatch) {
		return time.Time{}, fmt.Errorf("%w: %w", ErrAlreadyMarked, err)
	}
	if err != nil {
		return time.Time{}, err
	}
	s.log.Info("letter sent", "sender", sender, "recipient", recipient)
	metrics.RecordLetter(models.StatusSent.String())

	job := fmt.Sprintf("letter-arrived %d->%d", sender, recipient)
	return s.scheduler.After(s.cfg.DeliveryDelay, job, func(ctx context.Context) {
		s.deliver(ctx, sender, recipient)
	}), nil
}

// deliver notifies the recipient; the letter stays sent if that fails
func (s *Service) deliver(ctx context.Context, sender, recipient int64) {
	if err := s.notifier.Send(ctx, recipient, LetterArrivedText); err != nil {
		metrics.RecordMessages("letter_arrived", 0, 1)
		s.log.Error("failed to notify recipient", "sender", sender, "recipient", recipient, "error", err)
		return
	}

	if err := s.store.TransitionStatus(ctx, sender, recipient, models.StatusSent, models.StatusDelivered); err != nil {
		s.log.Error("failed to mark letter delivered", "sender", sender, "recipient", recipient, "error", err)
		return
	}
	metrics.RecordMessages("letter_arrived", 1, 0)
	metrics.RecordLetter(models.StatusDelivered.String())
	s.log.Info("letter delivered", "sender", sender, "recipient", recipient)
}
