// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Secret Post API.

# Handler Types

Each handler is a struct holding the coordinator service and the config:

  - UserHandler: registration, confirmation and a participant's own letters
  - AdminHandler: pairing runs, the distribution overview, broadcasts and stats

	userHandler := handlers.NewUserHandler(svc, cfg)

# Participants

	POST /users                       → Register (returns user_token once; 409 if registered)
	POST /users/{id}/confirm          → Confirm
	GET  /users/{id}                  → Get
	GET  /users/{id}/recipients       → Recipients (who to write to)
	GET  /users/{id}/incoming         → Incoming (letter counts, senders hidden)
	POST /users/{id}/sent/{recipient} → MarkSent

Everything except Register requires the X-User-Token header.

# Organizer

	POST /distribution                 → Distribute (optional {"k": n})
	GET  /distribution                 → Distribution
	POST /notifications/assignments    → SendAssignments (?test=1)
	POST /notifications/reminder       → SendReminder (?test=1)
	GET  /stats/registrations          → Timeline (?bucket=10m)

The router guards these with the X-Admin-Key header.

# Errors

Domain errors map to status codes: invalid k or bucket is 400, an unknown
user or assignment is 404, too few participants, an unbalanced result or a
letter already marked is 409.
*/
package handlers
