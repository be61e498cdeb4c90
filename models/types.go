package models

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/danielhkuo/secret-post/pairing"
)

// DeliveryStatus tracks a single letter
type DeliveryStatus int

const (
	StatusPending   DeliveryStatus = 0
	StatusSent      DeliveryStatus = 1
	StatusDelivered DeliveryStatus = 2
)

func (s DeliveryStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSent:
		return "sent"
	case StatusDelivered:
		return "delivered"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Domain types

type User struct {
	ID           int64     `json:"id"`
	Username     *string   `json:"username,omitempty"`
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	Confirmed    bool      `json:"confirmed"`
}

// DisplayName returns "First Last", falling back to the username and then the ID
func (u User) DisplayName() string {
	name := strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
	if name != "" {
		return name
	}
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	return fmt.Sprintf("ID: %d", u.ID)
}

// Contact renders an HTML chat mention for the user
func (u User) Contact() string {
	if u.Username != nil && *u.Username != "" {
		return html.EscapeString(u.DisplayName() + " (@" + *u.Username + ")")
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.ID, html.EscapeString(u.DisplayName()))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type Assignment struct {
	Sender    int64          `json:"sender"`
	Recipient int64          `json:"recipient"`
	Status    DeliveryStatus `json:"status"`
}

// Contact is a user reference exposed to other participants
type Contact struct {
	UserID int64          `json:"user_id"`
	Name   string         `json:"name"`
	Status DeliveryStatus `json:"status"`
}

// Request types

type RegisterUserRequest struct {
	ID        int64   `json:"id" validate:"required,gt=0"`
	Username  *string `json:"username" validate:"omitempty,max=32"`
	FirstName *string `json:"first_name" validate:"omitempty,max=64"`
	LastName  *string `json:"last_name" validate:"omitempty,max=64"`
}

type DistributeRequest struct {
	K *int `json:"k" validate:"omitempty,gt=0"`
}

// Response types

type RegisterUserResponse struct {
	UserID    int64  `json:"user_id"`
	UserToken string `json:"user_token"`
}

type ConfirmUserResponse struct {
	Confirmed        bool `json:"confirmed"`
	AlreadyConfirmed bool `json:"already_confirmed"`
}

type DistributeResponse struct {
	RunID       string         `json:"run_id"`
	CreatedAt   time.Time      `json:"created_at"`
	K           int            `json:"k"`
	Valid       bool           `json:"valid"`
	Stats       pairing.Stats  `json:"stats"`
	Attempts    int            `json:"attempts"`
	Assignments []pairing.Edge `json:"assignments"`
}

type DistributionEntry struct {
	Sender     Contact   `json:"sender"`
	Recipients []Contact `json:"recipients"`
}

type DistributionResponse struct {
	Valid   bool                `json:"valid"`
	Stats   pairing.Stats       `json:"stats"`
	Entries []DistributionEntry `json:"entries"`
}

type ContactsResponse struct {
	UserID   int64     `json:"user_id"`
	Contacts []Contact `json:"contacts"`
}

// IncomingResponse counts letters addressed to a user without naming senders
type IncomingResponse struct {
	UserID    int64 `json:"user_id"`
	Pending   int   `json:"pending"`
	Sent      int   `json:"sent"`
	Delivered int   `json:"delivered"`
}

type MarkSentResponse struct {
	Status          string    `json:"status"`
	NotifyRecipient time.Time `json:"notify_recipient_at"`
}

type BroadcastResponse struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type TimelinePoint struct {
	At         time.Time `json:"at"`
	Registered int       `json:"registered"`
	Cumulative int       `json:"cumulative"`
}

type TimelineResponse struct {
	Bucket string          `json:"bucket"`
	Points []TimelinePoint `json:"points"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
