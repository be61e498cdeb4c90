// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/handlers"
	"github.com/danielhkuo/secret-post/metrics"
	"github.com/danielhkuo/secret-post/middleware"
)

func NewRouter(svc *coordinator.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	userHandler := handlers.NewUserHandler(svc, cfg)
	adminHandler := handlers.NewAdminHandler(svc, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminKey(cfg.AdminKey, h))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	// Participants
	mux.HandleFunc("POST /users", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /users/{id}/confirm", middleware.WithLogging(userHandler.Confirm))
	mux.HandleFunc("GET /users/{id}", middleware.WithLogging(userHandler.Get))
	mux.HandleFunc("GET /users/{id}/recipients", middleware.WithLogging(userHandler.Recipients))
	mux.HandleFunc("GET /users/{id}/incoming", middleware.WithLogging(userHandler.Incoming))
	mux.HandleFunc("POST /users/{id}/sent/{recipient}", middleware.WithLogging(userHandler.MarkSent))

	// Organizer
	mux.HandleFunc("POST /distribution", admin(adminHandler.Distribute))
	mux.HandleFunc("GET /distribution", admin(adminHandler.Distribution))
	mux.HandleFunc("POST /notifications/assignments", admin(adminHandler.SendAssignments))
	mux.HandleFunc("POST /notifications/reminder", admin(adminHandler.SendReminder))
	mux.HandleFunc("GET /stats/registrations", admin(adminHandler.Timeline))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret-post API v1"))
	})

	return mux
}
