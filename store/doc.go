// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer for registered users and the
current distribution.

Two tables back it:

  - users: Telegram user ID, optional profile names, registration time and
    the confirmed flag. Only confirmed users take part in a pairing run.
  - distribution: one row per (sender, recipient) assignment with the
    recipient's position in the sender's list and its delivery status.

A distribution is always replaced as a whole inside one transaction, so
readers never observe a mix of two pairing runs. Queries use numbered
placeholders and run unchanged against SQLite and PostgreSQL.
*/
package store
