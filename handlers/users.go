// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/secret-post/auth"
	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/middleware"
	"github.com/danielhkuo/secret-post/models"
)

type UserHandler struct {
	svc *coordinator.Service
	cfg cliparse.Config
}

func NewUserHandler(svc *coordinator.Service, cfg cliparse.Config) *UserHandler {
	return &UserHandler{svc: svc, cfg: cfg}
}

// authorize resolves the {id} path parameter and checks X-User-Token against it
func (h *UserHandler) authorize(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}

	if err := auth.ValidateUserToken(userID, r.Header.Get("X-User-Token"), h.cfg.UserTokenSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid user token")
		return 0, false
	}
	return userID, true
}

// Register handles POST /users.
// The user token is only handed out when the user is first created.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.svc.Register(r.Context(), models.User{
		ID:        req.ID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, err, "Failed to register user")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterUserResponse{
		UserID:    req.ID,
		UserToken: auth.GenerateUserToken(req.ID, h.cfg.UserTokenSalt),
	})
}

// Confirm handles POST /users/{id}/confirm
func (h *UserHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	already, err := h.svc.Confirm(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to confirm user")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ConfirmUserResponse{
		Confirmed:        true,
		AlreadyConfirmed: already,
	})
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	u, err := h.svc.User(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load user")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, u)
}

// Recipients handles GET /users/{id}/recipients
func (h *UserHandler) Recipients(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	contacts, err := h.svc.Recipients(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load recipients")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ContactsResponse{
		UserID:   userID,
		Contacts: contacts,
	})
}

// Incoming handles GET /users/{id}/incoming
func (h *UserHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	counts, err := h.svc.Incoming(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load incoming letters")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.IncomingResponse{
		UserID:    userID,
		Pending:   counts[models.StatusPending],
		Sent:      counts[models.StatusSent],
		Delivered: counts[models.StatusDelivered],
	})
}

// MarkSent handles POST /users/{id}/sent/{recipient}
func (h *UserHandler) MarkSent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	recipient, ok := pathID(r, "recipient")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid recipient id")
		return
	}

	due, err := h.svc.MarkSent(r.Context(), userID, recipient)
	if err != nil {
		writeError(w, err, "Failed to mark letter as sent")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MarkSentResponse{
		Status:          models.StatusSent.String(),
		NotifyRecipient: due,
	})
}
