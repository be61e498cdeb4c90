// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package coordinator runs the exchange on top of the store and the pairing engine.

# Lifecycle

	Register → Confirm → Distribute → SendAssignments → MarkSent → (delay) → delivered

Register only accepts new IDs; a repeat registration returns
ErrAlreadyRegistered. Confirm is idempotent and reports whether the user had
already confirmed. Distribute snapshots the confirmed users, builds a distribution,
checks it for self-pairs and duplicate edges and verifies degree balance.
An unbalanced result is rebuilt with a fresh permutation up to
Config.MaxAttempts times. Only a balanced distribution replaces the stored one.

# Delivery

MarkSent moves a letter from pending to sent and schedules a one-shot
notification for the recipient after Config.DeliveryDelay. When it fires the
letter becomes delivered. A failed notification leaves the letter sent.

Recipients only ever see counts through Incoming; senders stay anonymous.

# Broadcasts

SendAssignments and SendReminder go through notify.Broadcaster, which paces
messages to stay under the chat API rate limits. In test mode only
Config.TestRecipients receive messages.
*/
package coordinator
