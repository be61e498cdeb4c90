// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The first argument may name a command; without one the HTTP server starts.

	serve              HTTP gateway for the chat bot (default)
	distribute [-k N]  Pair confirmed users and store the distribution
	show               Print the stored distribution and its statistics
	send-assignments   Message every participant their recipients
	remind             Message every sender the drop-off reminder
	timeline           Print confirmed registrations over time

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type (sqlite or postgres)
	-admin-key      Admin key
	-user-salt      User token salt
	-bot-token      Chat bot token
	-bot-api        Chat bot API base URL
	-dry-run        Log messages instead of sending them
	-k              Recipients per participant
	-attempts       Pairing attempts
	-delivery-delay Delay before the recipient is notified
	-test           Send only to TEST_RECIPIENTS
	-bucket         Timeline bucket size
	-log-level      debug, info, warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p               (default 3318)
	DATABASE_URL    → -d               (default file:users.db for sqlite)
	DATABASE_TYPE   → -t               (default sqlite)
	ADMIN_KEY       → -admin-key
	USER_TOKEN_SALT → -user-salt
	BOT_TOKEN       → -bot-token
	BOT_API_URL     → -bot-api         (default https://api.telegram.org)
	PAIRS_PER_USER  → -k
	DELIVERY_DELAY  → -delivery-delay  (default 10m)
	LOG_LEVEL       → -log-level       (default info)
	TEST_RECIPIENTS   comma separated chat IDs used by -test

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.

# Validation

ParseFlags returns an error if:

  - the command is unknown
  - DATABASE_TYPE is not sqlite or postgres
  - DATABASE_URL is missing for postgres
  - ADMIN_KEY or USER_TOKEN_SALT is missing for serve
  - BOT_TOKEN is missing for a sending command without -dry-run
*/
package cliparse
