// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:secret-post.db")

PostgreSQL uses github.com/lib/pq; SQLite uses the pure Go modernc.org/sqlite
driver, limited to a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on both databases.

# Tables

  - users: Registered chat users and their confirmation flag
  - distribution: One row per sender → recipient assignment with its
    delivery status (0 pending, 1 sent, 2 delivered) and its position in
    the sender's list

# Indexes

  - users.confirmed
  - distribution.recipient_id (lookups of who writes to a user)
*/
package db
