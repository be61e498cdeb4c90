// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for Secret Post.

Secret Post runs a gift-letter exchange: participants register and confirm
through a chat bot, the organizer pairs them so that everyone writes to and
hears from the same number of people, and the bot tells each sender who to
write to. When a sender drops off a letter, the recipient is notified after
a delay.

# Commands

	secret-post [command] [flags]

	serve             HTTP API (default)
	distribute        Pair confirmed users and store the distribution
	show              Print the stored distribution and its verification
	send-assignments  Message every sender their recipients (-test for test recipients)
	remind            Message every sender the drop-off instructions
	timeline          Print confirmed registrations over time (-bucket 10m)

Settings are read from flags, then the environment, then a .env file:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): connection string, default file:users.db for SQLite
  - ADMIN_KEY (-admin-key): organizer key for the HTTP API
  - USER_TOKEN_SALT (-user-salt): secret for per-user tokens
  - BOT_TOKEN (-bot-token): chat bot token; -dry-run logs messages instead
  - PAIRS_PER_USER (-k): recipients per participant, default half the group
  - DELIVERY_DELAY (-delivery-delay): default 10m
  - TEST_RECIPIENTS: comma-separated user IDs for -test runs
  - PORT (-p): server port (default: 3318)

# Architecture

  - pairing: circulant pairing engine and distribution verifier
  - store, db: persistence on SQLite or PostgreSQL
  - coordinator: registration, pairing runs, delivery tracking
  - notify: chat bot client, paced broadcasts, delayed notifications
  - handlers, router, middleware: HTTP API
  - report: terminal output for the commands
  - auth, cliparse, models: tokens, configuration, shared types
*/
package main
