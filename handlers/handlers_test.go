// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/secret-post/auth"
	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
	"github.com/danielhkuo/secret-post/store"
	"github.com/danielhkuo/secret-post/testutil"
)

type testEnv struct {
	db       *sql.DB
	cfg      cliparse.Config
	svc      *coordinator.Service
	notifier *testutil.RecordingNotifier
	clock    *clockwork.FakeClock
	users    *UserHandler
	admin    *AdminHandler
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	cfg := testutil.GetTestConfig()
	log := testutil.DiscardLogger()
	clk := clockwork.NewFakeClockAt(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	notifier := &testutil.RecordingNotifier{}

	broadcaster := notify.NewBroadcaster(notifier, clk, log)
	broadcaster.SuccessPause = 0
	broadcaster.ErrorPause = 0
	scheduler := notify.NewScheduler(clk, log)
	t.Cleanup(scheduler.Stop)

	svc := coordinator.New(coordinator.Deps{
		Store:       store.New(conn, log),
		Engine:      pairing.NewSeededEngine(7),
		Notifier:    notifier,
		Broadcaster: broadcaster,
		Scheduler:   scheduler,
		Clock:       clk,
		Logger:      log,
	}, coordinator.Config{
		MaxAttempts:    cfg.MaxAttempts,
		DeliveryDelay:  cfg.DeliveryDelay,
		TestRecipients: []int64{1},
	})

	return &testEnv{
		db:       conn,
		cfg:      cfg,
		svc:      svc,
		notifier: notifier,
		clock:    clk,
		users:    NewUserHandler(svc, cfg),
		admin:    NewAdminHandler(svc, cfg),
	}
}

// userRequest builds a request authorized for userID with the {id} path value set
func (e *testEnv) userRequest(method, path string, userID int64, body interface{}) *http.Request {
	req := testutil.MakeRequest(method, path, body, map[string]string{
		"X-User-Token": auth.GenerateUserToken(userID, e.cfg.UserTokenSalt),
	})
	req.SetPathValue("id", strconv.FormatInt(userID, 10))
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
