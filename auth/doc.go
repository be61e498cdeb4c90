// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Key

Operator endpoints (running a distribution, broadcasts, statistics) require
the configured admin key in the X-Admin-Key header:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

The comparison is constant time. An unconfigured (empty) key never matches.

# User Tokens

User tokens use HMAC-SHA256 over the chat user ID:

	token := auth.GenerateUserToken(userID, salt)
	err := auth.ValidateUserToken(userID, token, salt)

The token is URL-safe base64 encoded without padding. Since it's
deterministic, the same user ID and salt always produce the same token, so
nothing is stored in the database. The bot gateway receives it on
registration and sends it back in the X-User-Token header.
*/
package auth
