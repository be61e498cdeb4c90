// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pairing assigns secret recipients to participants.

# Building

An Engine turns a snapshot of unique participant IDs into a Distribution,
a map from each sender to k distinct recipients:

	engine := pairing.NewRandomEngine()
	dist, err := engine.Build(ids, nil) // k defaults to max(1, n/2)

The participant list is shuffled once, then the sender at position i writes
to positions i+1 … i+k (mod n). Every offset is a permutation of the
participants, so each participant ends up with exactly k outgoing and k
incoming assignments and never writes to themselves.

  - fewer than 2 participants: empty distribution, no error
  - k > n-1: clamped to n-1
  - k <= 0: ErrInvalidK
  - repeated ID: ErrDuplicateParticipant

Engines are safe for concurrent use. Use NewSeededEngine in tests for
reproducible permutations.

# Verifying

	valid, stats := pairing.Verify(dist)

Verify checks that every sender has the same out-degree and every recipient
has the same in-degree. Stats carries the common values (nil when not
uniform) and the number of senders. An empty distribution is never valid.

CheckEdges is the structural counterpart: it rejects self assignments and
repeated edges.
*/
package pairing
