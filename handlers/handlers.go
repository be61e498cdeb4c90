// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/middleware"
	"github.com/danielhkuo/secret-post/pairing"
	"github.com/danielhkuo/secret-post/store"
)

// writeError maps domain errors to HTTP status codes
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, pairing.ErrInvalidK),
		errors.Is(err, pairing.ErrDuplicateParticipant),
		errors.Is(err, coordinator.ErrInvalidBucket):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrAssignmentNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, coordinator.ErrNotEnoughParticipants),
		errors.Is(err, coordinator.ErrUnbalanced),
		errors.Is(err, coordinator.ErrAlreadyMarked),
		errors.Is(err, coordinator.ErrAlreadyRegistered):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error(fallback, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// pathID reads a numeric path parameter
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
