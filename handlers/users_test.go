// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/secret-post/auth"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/testutil"
)

func TestRegister(t *testing.T) {
	env := setupEnv(t)

	req := testutil.MakeRequest("POST", "/users", models.RegisterUserRequest{
		ID:        42,
		Username:  lo.ToPtr("alice"),
		FirstName: lo.ToPtr("Alice"),
	}, nil)
	w := serve(env.users.Register, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.RegisterUserResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, int64(42), resp.UserID)
	assert.Equal(t, auth.GenerateUserToken(42, env.cfg.UserTokenSalt), resp.UserToken)
}

func TestRegister_ExistingUserGetsNoToken(t *testing.T) {
	env := setupEnv(t)

	first := testutil.MakeRequest("POST", "/users", models.RegisterUserRequest{ID: 42, FirstName: lo.ToPtr("Alice")}, nil)
	testutil.AssertStatus(t, serve(env.users.Register, first), http.StatusCreated)

	again := testutil.MakeRequest("POST", "/users", models.RegisterUserRequest{ID: 42, FirstName: lo.ToPtr("Mallory")}, nil)
	w := serve(env.users.Register, again)

	testutil.AssertStatus(t, w, http.StatusConflict)
	assert.NotContains(t, w.Body.String(), auth.GenerateUserToken(42, env.cfg.UserTokenSalt))
	var resp models.RegisterUserResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Empty(t, resp.UserToken)

	u, err := env.svc.User(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Alice", *u.FirstName)
}

func TestRegister_Validation(t *testing.T) {
	env := setupEnv(t)

	testCases := []struct {
		name string
		body interface{}
	}{
		{"invalid json", "not an object"},
		{"missing id", models.RegisterUserRequest{FirstName: lo.ToPtr("Bob")}},
		{"negative id", models.RegisterUserRequest{ID: -5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(env.users.Register, testutil.MakeRequest("POST", "/users", tc.body, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestConfirm(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestUser(t, env.db, 5, "Eve", false)

	w := serve(env.users.Confirm, env.userRequest("POST", "/users/5/confirm", 5, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ConfirmUserResponse
	testutil.AssertJSON(t, w, &resp)
	assert.True(t, resp.Confirmed)
	assert.False(t, resp.AlreadyConfirmed)

	w = serve(env.users.Confirm, env.userRequest("POST", "/users/5/confirm", 5, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	assert.True(t, resp.AlreadyConfirmed)
}

func TestConfirm_UnknownUser(t *testing.T) {
	env := setupEnv(t)

	w := serve(env.users.Confirm, env.userRequest("POST", "/users/99/confirm", 99, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUserToken_Rejected(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestUser(t, env.db, 5, "Eve", true)

	// token issued for another user
	req := env.userRequest("GET", "/users/5", 6, nil)
	req.SetPathValue("id", "5")
	testutil.AssertStatus(t, serve(env.users.Get, req), http.StatusUnauthorized)

	req = testutil.MakeRequest("GET", "/users/5", nil, nil)
	req.SetPathValue("id", "5")
	testutil.AssertStatus(t, serve(env.users.Get, req), http.StatusUnauthorized)

	req = testutil.MakeRequest("GET", "/users/abc", nil, nil)
	req.SetPathValue("id", "abc")
	testutil.AssertStatus(t, serve(env.users.Get, req), http.StatusBadRequest)
}

func TestGetUser(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestUser(t, env.db, 5, "Eve", true)

	w := serve(env.users.Get, env.userRequest("GET", "/users/5", 5, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var u models.User
	testutil.AssertJSON(t, w, &u)
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, "Eve", *u.FirstName)
	assert.True(t, u.Confirmed)
}

func TestRecipientsAndIncoming(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestUsers(t, env.db, 4)
	run, err := env.svc.Distribute(context.Background(), nil)
	require.NoError(t, err)

	w := serve(env.users.Recipients, env.userRequest("GET", "/users/1/recipients", 1, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var contacts models.ContactsResponse
	testutil.AssertJSON(t, w, &contacts)
	require.Len(t, contacts.Contacts, 2)
	assert.Equal(t, run.Distribution[1], lo.Map(contacts.Contacts, func(c models.Contact, _ int) int64 { return c.UserID }))
	for _, c := range contacts.Contacts {
		assert.Equal(t, models.StatusPending, c.Status)
		assert.NotEmpty(t, c.Name)
	}

	w = serve(env.users.Incoming, env.userRequest("GET", "/users/1/incoming", 1, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var incoming models.IncomingResponse
	testutil.AssertJSON(t, w, &incoming)
	assert.Equal(t, models.IncomingResponse{UserID: 1, Pending: 2}, incoming)
}

func TestMarkSent(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestUsers(t, env.db, 3)
	run, err := env.svc.Distribute(context.Background(), nil)
	require.NoError(t, err)
	recipient := run.Distribution[1][0]

	markSent := func(to string) *http.Request {
		req := env.userRequest("POST", "/users/1/sent/"+to, 1, nil)
		req.SetPathValue("recipient", to)
		return req
	}
	to := lo.Ternary(recipient == 2, "2", "3")

	w := serve(env.users.MarkSent, markSent(to))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MarkSentResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, "sent", resp.Status)
	assert.True(t, resp.NotifyRecipient.Equal(env.clock.Now().Add(env.cfg.DeliveryDelay)))

	testutil.AssertStatus(t, serve(env.users.MarkSent, markSent(to)), http.StatusConflict)
	testutil.AssertStatus(t, serve(env.users.MarkSent, markSent("1")), http.StatusNotFound)
	testutil.AssertStatus(t, serve(env.users.MarkSent, markSent("x")), http.StatusBadRequest)

	env.clock.Advance(env.cfg.DeliveryDelay)
	require.Eventually(t, func() bool {
		return len(env.notifier.To(recipient)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
