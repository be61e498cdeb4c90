// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines shared data types for the Secret Post API.

# Domain Types

Core entities:

  - User: A registered chat user; only confirmed users take part in a run
  - Assignment: One stored sender → recipient edge with its DeliveryStatus
  - Contact: A user reference shown to the other side of an assignment

# Delivery Status

Each assignment moves forward through three states:

	StatusPending (0) → StatusSent (1) → StatusDelivered (2)

Pending is written when the distribution is stored. The sender marks the
letter as sent; the recipient is notified after a delay and the letter
becomes delivered.

# Request/Response Types

Each API endpoint has corresponding types:

	RegisterUserRequest  → RegisterUserResponse
	DistributeRequest    → DistributeResponse
	(none)               → DistributionResponse, ContactsResponse

# Contacts

User.Contact renders an HTML mention suitable for chat messages. Users
without a username are linked via tg://user?id=.

# Nullable Fields

Optional profile fields use pointers so they map to NULL columns:

	Username  *string
	FirstName *string
	LastName  *string
*/
package models
