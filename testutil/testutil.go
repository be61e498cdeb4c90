// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/db"
	"github.com/danielhkuo/secret-post/models"
)

// TestDBURL is an in-memory SQLite database, private to each connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.CreateSchema(conn), "failed to create schema")

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   TestDBURL,
		DatabaseType:  db.TypeSQLite,
		AdminKey:      "test-admin-key",
		UserTokenSalt: "test-user-salt",
		DeliveryDelay: time.Minute,
		MaxAttempts:   3,
		LogLevel:      "debug",
	}
}

// DiscardLogger returns a logger that drops all output
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestUser registers a user and optionally confirms it
func CreateTestUser(t *testing.T, conn *sql.DB, id int64, firstName string, confirmed bool) models.User {
	t.Helper()

	registeredAt := time.Date(2025, 12, 1, 14, 14, 0, 0, time.UTC).Add(time.Duration(id) * time.Second)
	_, err := conn.Exec(`
		INSERT INTO users (user_id, username, first_name, last_name, registered_at, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, nil, firstName, nil, registeredAt, confirmed)
	require.NoError(t, err, "failed to create test user")

	return models.User{
		ID:           id,
		FirstName:    &firstName,
		RegisteredAt: registeredAt,
		Confirmed:    confirmed,
	}
}

// CreateTestUsers registers confirmed users with IDs 1..n
func CreateTestUsers(t *testing.T, conn *sql.DB, n int) []int64 {
	t.Helper()

	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
		CreateTestUser(t, conn, ids[i], "User"+string(rune('A'+i)), true)
	}
	return ids
}

// Message is one captured notification
type Message struct {
	ChatID int64
	Text   string
}

// RecordingNotifier captures sent messages. IDs listed in Fail return an error.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []Message
	Fail     map[int64]bool
}

func (n *RecordingNotifier) Send(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Fail[chatID] {
		return io.ErrUnexpectedEOF
	}
	n.Messages = append(n.Messages, Message{ChatID: chatID, Text: text})
	return nil
}

// To returns messages sent to chatID
func (n *RecordingNotifier) To(chatID int64) []Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []Message
	for _, m := range n.Messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Messages)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, "body: %s", w.Body.String())
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), "failed to decode JSON response")
}
