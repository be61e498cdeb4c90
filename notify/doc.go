// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify delivers chat messages: a Bot API client with retries,
// a paced broadcaster and a scheduler for delayed one-shot jobs.
package notify
