// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/pairing"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrStatusMismatch     = errors.New("assignment is not in the expected status")
)

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func New(db *sql.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// AddUser registers a user and reports whether a row was inserted.
// Registering an existing user leaves the stored row untouched.
func (s *Store) AddUser(ctx context.Context, u models.User) (bool, error) {
	registeredAt := u.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, first_name, last_name, registered_at, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`, u.ID, u.Username, u.FirstName, u.LastName, registeredAt, false)
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}
	return n > 0, nil
}

// ConfirmUser marks a registered user as a participant
func (s *Store) ConfirmUser(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET confirmed = $1 WHERE user_id = $2
	`, true, userID)
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IsConfirmed reports false for unknown users
func (s *Store) IsConfirmed(ctx context.Context, userID int64) (bool, error) {
	var confirmed bool
	err := s.db.QueryRowContext(ctx, `
		SELECT confirmed FROM users WHERE user_id = $1
	`, userID).Scan(&confirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return confirmed, nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, username, first_name, last_name, registered_at, confirmed
		FROM users
		WHERE user_id = $1
	`, userID).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.RegisteredAt, &u.Confirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// ConfirmedUsers returns confirmed users ordered by ID
func (s *Store) ConfirmedUsers(ctx context.Context) ([]models.User, error) {
	return s.queryUsers(ctx, `
		SELECT user_id, username, first_name, last_name, registered_at, confirmed
		FROM users
		WHERE confirmed = $1
		ORDER BY user_id
	`, true)
}

// AllUsers returns every registered user ordered by ID
func (s *Store) AllUsers(ctx context.Context) ([]models.User, error) {
	return s.queryUsers(ctx, `
		SELECT user_id, username, first_name, last_name, registered_at, confirmed
		FROM users
		ORDER BY user_id
	`)
}

// ConfirmedUserIDs is the participant snapshot for a pairing run
func (s *Store) ConfirmedUserIDs(ctx context.Context) ([]int64, error) {
	users, err := s.ConfirmedUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.RegisteredAt, &u.Confirmed); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ReplaceDistribution drops the stored distribution and saves d with every
// assignment pending. It runs in one transaction.
func (s *Store) ReplaceDistribution(ctx context.Context, d pairing.Distribution) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM distribution`); err != nil {
		return fmt.Errorf("failed to clear distribution: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO distribution (sender_id, recipient_id, seq, status)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sender := range pairing.Senders(d) {
		for pos, recipient := range d[sender] {
			if _, err := stmt.ExecContext(ctx, sender, recipient, pos, models.StatusPending); err != nil {
				return fmt.Errorf("failed to insert assignment %d -> %d: %w", sender, recipient, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit distribution: %w", err)
	}

	s.log.Info("distribution stored", "senders", len(d))
	return nil
}

// Assignments returns every stored assignment ordered by sender and position
func (s *Store) Assignments(ctx context.Context) ([]models.Assignment, error) {
	return s.queryAssignments(ctx, `
		SELECT sender_id, recipient_id, status
		FROM distribution
		ORDER BY sender_id, seq
	`)
}

// Distribution loads the stored sender → recipients mapping
func (s *Store) Distribution(ctx context.Context) (pairing.Distribution, error) {
	assignments, err := s.Assignments(ctx)
	if err != nil {
		return nil, err
	}

	dist := pairing.Distribution{}
	for _, a := range assignments {
		dist[a.Sender] = append(dist[a.Sender], a.Recipient)
	}
	return dist, nil
}

// RecipientsFor lists who the sender writes to, in assignment order
func (s *Store) RecipientsFor(ctx context.Context, sender int64) ([]models.Assignment, error) {
	return s.queryAssignments(ctx, `
		SELECT sender_id, recipient_id, status
		FROM distribution
		WHERE sender_id = $1
		ORDER BY seq
	`, sender)
}

// SendersFor lists who writes to the recipient
func (s *Store) SendersFor(ctx context.Context, recipient int64) ([]models.Assignment, error) {
	return s.queryAssignments(ctx, `
		SELECT sender_id, recipient_id, status
		FROM distribution
		WHERE recipient_id = $1
		ORDER BY sender_id
	`, recipient)
}

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.Sender, &a.Recipient, &a.Status); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Senders returns every distinct sender in the stored distribution
func (s *Store) Senders(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT sender_id FROM distribution ORDER BY sender_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query senders: %w", err)
	}
	defer rows.Close()

	senders := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sender: %w", err)
		}
		senders = append(senders, id)
	}
	return senders, rows.Err()
}

func (s *Store) Assignment(ctx context.Context, sender, recipient int64) (models.Assignment, error) {
	a := models.Assignment{Sender: sender, Recipient: recipient}
	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM distribution WHERE sender_id = $1 AND recipient_id = $2
	`, sender, recipient).Scan(&a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	if err != nil {
		return models.Assignment{}, fmt.Errorf("failed to query assignment: %w", err)
	}
	return a, nil
}

// TransitionStatus moves one assignment from one status to another in a
// single statement, so concurrent callers cannot both win the transition.
func (s *Store) TransitionStatus(ctx context.Context, sender, recipient int64, from, to models.DeliveryStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE distribution SET status = $1
		WHERE sender_id = $2 AND recipient_id = $3 AND status = $4
	`, to, sender, recipient, from)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n > 0 {
		return nil
	}

	a, err := s.Assignment(ctx, sender, recipient)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: status %s", ErrStatusMismatch, a.Status)
}
