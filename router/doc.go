// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Secret Post API.

	mux := router.NewRouter(svc, cfg)

Health:

	GET /health
	GET /metrics (Prometheus)

Participants (X-User-Token):

	POST /users                       - Register, returns the user token once
	POST /users/{id}/confirm          - Join the exchange
	GET  /users/{id}                  - Own profile
	GET  /users/{id}/recipients       - Who to write to
	GET  /users/{id}/incoming         - Letter counts addressed to the user
	POST /users/{id}/sent/{recipient} - Mark a letter as dropped off

Organizer (X-Admin-Key):

	POST /distribution              - Run the pairing engine
	GET  /distribution              - Stored distribution with verification
	POST /notifications/assignments - Tell everyone who they write to
	POST /notifications/reminder    - Drop-off reminder for senders
	GET  /stats/registrations       - Registration timeline

Every route is wrapped with middleware.WithLogging.
*/
package router
