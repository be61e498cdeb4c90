// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with method, path, status and duration_ms. Server errors
are logged at error level.

# Admin Guard

	mux.HandleFunc("POST /distribution", middleware.RequireAdminKey(cfg.AdminKey, h.Distribute))

Requests must carry the configured key in X-Admin-Key. An empty configured
key rejects everything.

# CORS

	server := http.Server{Handler: middleware.CORS(mux)}

Allows GET, POST and OPTIONS with Content-Type, X-Admin-Key and X-User-Token.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ParseJSONBody(r, &req)
*/
package middleware
