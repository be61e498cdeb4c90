// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/secret-post/auth"
	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
	"github.com/danielhkuo/secret-post/store"
	"github.com/danielhkuo/secret-post/testutil"
)

func setupRouter(t *testing.T) (*http.ServeMux, cliparse.Config) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	cfg := testutil.GetTestConfig()
	log := testutil.DiscardLogger()
	clk := clockwork.NewFakeClock()
	notifier := &testutil.RecordingNotifier{}
	scheduler := notify.NewScheduler(clk, log)
	t.Cleanup(scheduler.Stop)

	svc := coordinator.New(coordinator.Deps{
		Store:       store.New(conn, log),
		Engine:      pairing.NewSeededEngine(1),
		Notifier:    notifier,
		Broadcaster: notify.NewBroadcaster(notifier, clk, log),
		Scheduler:   scheduler,
		Clock:       clk,
		Logger:      log,
	}, coordinator.Config{MaxAttempts: cfg.MaxAttempts, DeliveryDelay: cfg.DeliveryDelay})

	return NewRouter(svc, cfg), cfg
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "secret-post API v1", w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireKey(t *testing.T) {
	mux, cfg := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/distribution"},
		{"GET", "/distribution"},
		{"POST", "/notifications/assignments"},
		{"POST", "/notifications/reminder"},
		{"GET", "/stats/registrations"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, "no admin key")

			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("X-Admin-Key", cfg.AdminKey)
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			assert.NotContains(t, []int{http.StatusUnauthorized, http.StatusMethodNotAllowed}, w.Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/distribution"},
		{"GET", "/users/1/sent/2"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}

// TestExchangeFlow walks two participants from registration to their assignments
func TestExchangeFlow(t *testing.T) {
	mux, cfg := setupRouter(t)

	for _, id := range []int64{11, 22} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/users", models.RegisterUserRequest{ID: id}, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)

		var reg models.RegisterUserResponse
		testutil.AssertJSON(t, w, &reg)

		w = httptest.NewRecorder()
		path := "/users/" + strconv.FormatInt(id, 10) + "/confirm"
		mux.ServeHTTP(w, testutil.MakeRequest("POST", path, nil, map[string]string{"X-User-Token": reg.UserToken}))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/distribution", nil, map[string]string{"X-Admin-Key": cfg.AdminKey}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	token := auth.GenerateUserToken(11, cfg.UserTokenSalt)
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/users/11/recipients", nil, map[string]string{"X-User-Token": token}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var contacts models.ContactsResponse
	testutil.AssertJSON(t, w, &contacts)
	if assert.Len(t, contacts.Contacts, 1) {
		assert.Equal(t, int64(22), contacts.Contacts[0].UserID)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/users/11/sent/22", nil, map[string]string{"X-User-Token": token}))
	testutil.AssertStatus(t, w, http.StatusOK)
}

