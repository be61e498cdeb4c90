// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/secret-post/metrics"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
	"github.com/danielhkuo/secret-post/store"
)

var (
	ErrNotEnoughParticipants = errors.New("at least 2 confirmed participants are needed")
	ErrUnbalanced            = errors.New("distribution is not balanced")
	ErrAlreadyMarked         = errors.New("letter already marked as sent")
	ErrAlreadyRegistered     = errors.New("user already registered")
)

type Config struct {
	// DefaultK is used when a run does not request k; 0 means max(1, n/2)
	DefaultK       int
	MaxAttempts    int
	DeliveryDelay  time.Duration
	TestRecipients []int64
}

type Deps struct {
	Store       *store.Store
	Engine      *pairing.Engine
	Notifier    notify.Notifier
	Broadcaster *notify.Broadcaster
	Scheduler   *notify.Scheduler
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

// Service implements the exchange's use cases on top of the store and the pairing engine
type Service struct {
	store       *store.Store
	engine      *pairing.Engine
	notifier    notify.Notifier
	broadcaster *notify.Broadcaster
	scheduler   *notify.Scheduler
	clock       clockwork.Clock
	log         *slog.Logger
	cfg         Config
}

func New(d Deps, cfg Config) *Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Service{
		store:       d.Store,
		engine:      d.Engine,
		notifier:    d.Notifier,
		broadcaster: d.Broadcaster,
		scheduler:   d.Scheduler,
		clock:       d.Clock,
		log:         d.Logger,
		cfg:         cfg,
	}
}

// Register adds a new user. An existing ID is rejected with
// ErrAlreadyRegistered and its stored row is left unchanged.
func (s *Service) Register(ctx context.Context, u models.User) error {
	created, err := s.store.AddUser(ctx, u)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: %d", ErrAlreadyRegistered, u.ID)
	}
	s.log.Info("user registered", "user_id", u.ID)
	return nil
}

// Confirm marks the user as a participant and reports whether they already were
func (s *Service) Confirm(ctx context.Context, userID int64) (bool, error) {
	confirmed, err := s.store.IsConfirmed(ctx, userID)
	if err != nil {
		return false, err
	}
	if confirmed {
		return true, nil
	}

	if err := s.store.ConfirmUser(ctx, userID); err != nil {
		return false, err
	}
	s.log.Info("user confirmed", "user_id", userID)
	return false, nil
}

func (s *Service) User(ctx context.Context, userID int64) (models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// Run is the outcome of one pairing run
type Run struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	K            int
	Attempts     int
	Distribution pairing.Distribution
	Valid        bool
	Stats        pairing.Stats
}

// Distribute pairs the confirmed users and replaces the stored distribution.
// An unbalanced result is rebuilt with a new permutation up to MaxAttempts
// times and never stored.
func (s *Service) Distribute(ctx context.Context, k *int) (Run, error) {
	if k == nil && s.cfg.DefaultK > 0 {
		k = &s.cfg.DefaultK
	}

	ids, err := s.store.ConfirmedUserIDs(ctx)
	if err != nil {
		return Run{}, err
	}
	if len(ids) < 2 {
		return Run{}, fmt.Errorf("%w: have %d", ErrNotEnoughParticipants, len(ids))
	}

	want := pairing.DefaultK(len(ids))
	if k != nil {
		want = *k
	}

	run := Run{
		ID:        uuid.New(),
		CreatedAt: s.clock.Now(),
		K:         pairing.EffectiveK(len(ids), want),
	}

	for run.Attempts < s.cfg.MaxAttempts {
		run.Attempts++

		dist, err := s.engine.Build(ids, k)
		if err != nil {
			metrics.RecordPairingRun(metrics.RunFailed, run.Attempts)
			return Run{}, err
		}
		run.Distribution = dist

		if err := pairing.CheckEdges(dist); err != nil {
			s.log.Warn("distribution rejected", "run_id", run.ID, "attempt", run.Attempts, "error", err)
			continue
		}

		run.Valid, run.Stats = pairing.Verify(dist)
		if run.Valid {
			break
		}
		s.log.Warn("distribution unbalanced, retrying", "run_id", run.ID, "attempt", run.Attempts)
	}

	if !run.Valid {
		metrics.RecordPairingRun(metrics.RunUnbalanced, run.Attempts)
		return run, ErrUnbalanced
	}

	if err := s.store.ReplaceDistribution(ctx, run.Distribution); err != nil {
		metrics.RecordPairingRun(metrics.RunFailed, run.Attempts)
		return Run{}, err
	}
	metrics.RecordPairingRun(metrics.RunStored, run.Attempts)

	s.log.Info("distribution created",
		"run_id", run.ID,
		"participants", len(ids),
		"k", run.K,
		"attempts", run.Attempts,
	)
	return run, nil
}

// Overview is the stored distribution with its verification result
type Overview struct {
	Assignments  []models.Assignment
	Distribution pairing.Distribution
	Users        map[int64]models.User
	Valid        bool
	Stats        pairing.Stats
}

// Name resolves a participant's display name
func (o Overview) Name(id int64) string {
	if u, ok := o.Users[id]; ok {
		return u.DisplayName()
	}
	return models.User{ID: id}.DisplayName()
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	assignments, err := s.store.Assignments(ctx)
	if err != nil {
		return Overview{}, err
	}

	users, err := s.store.AllUsers(ctx)
	if err != nil {
		return Overview{}, err
	}

	o := Overview{
		Assignments:  assignments,
		Distribution: pairing.Distribution{},
		Users:        make(map[int64]models.User, len(users)),
	}
	for _, a := range assignments {
		o.Distribution[a.Sender] = append(o.Distribution[a.Sender], a.Recipient)
	}
	for _, u := range users {
		o.Users[u.ID] = u
	}
	o.Valid, o.Stats = pairing.Verify(o.Distribution)
	return o, nil
}

// Recipients returns who the sender writes to, with delivery status
func (s *Service) Recipients(ctx context.Context, sender int64) ([]models.Contact, error) {
	assignments, err := s.store.RecipientsFor(ctx, sender)
	if err != nil {
		return nil, err
	}

	contacts := make([]models.Contact, 0, len(assignments))
	for _, a := range assignments {
		u, err := s.lookup(ctx, a.Recipient)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, models.Contact{UserID: u.ID, Name: u.DisplayName(), Status: a.Status})
	}
	return contacts, nil
}

// Incoming counts the letters addressed to the recipient by status.
// Senders stay anonymous.
func (s *Service) Incoming(ctx context.Context, recipient int64) (map[models.DeliveryStatus]int, error) {
	assignments, err := s.store.SendersFor(ctx, recipient)
	if err != nil {
		return nil, err
	}

	counts := map[models.DeliveryStatus]int{
		models.StatusPending:   0,
		models.StatusSent:      0,
		models.StatusDelivered: 0,
	}
	for _, a := range assignments {
		counts[a.Status]++
	}
	return counts, nil
}

// lookup returns the stored user, or a bare one when the user row is gone
func (s *Service) lookup(ctx context.Context, id int64) (models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{ID: id}, nil
	}
	return u, err
}
