// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

var (
	ErrSelfPair      = errors.New("participant assigned to themselves")
	ErrDuplicateEdge = errors.New("duplicate assignment")
)

// Stats summarizes a distribution's degrees.
// OutgoingCount and IncomingCount are nil when the degrees are not uniform.
type Stats struct {
	OutgoingCount *int `json:"outgoing_count,omitempty"`
	IncomingCount *int `json:"incoming_count,omitempty"`
	TotalUsers    int  `json:"total_users"`
}

// Edge is a single sender → recipient assignment
type Edge struct {
	Sender    ParticipantID `json:"sender"`
	Recipient ParticipantID `json:"recipient"`
}

// Verify reports whether every sender has the same out-degree and every
// recipient has the same in-degree. TotalUsers is the number of senders.
// A non-uniform distribution is a result, not an error.
func Verify(d Distribution) (bool, Stats) {
	if len(d) == 0 {
		return false, Stats{}
	}

	outgoing := make(map[ParticipantID]int, len(d))
	incoming := make(map[ParticipantID]int)

	for sender, recipients := range d {
		outgoing[sender] = len(recipients)
		for _, r := range recipients {
			incoming[r]++
		}
	}

	outCount, outUniform := uniform(outgoing)
	inCount, inUniform := uniform(incoming)

	stats := Stats{TotalUsers: len(d)}
	if outUniform {
		stats.OutgoingCount = &outCount
	}
	if inUniform {
		stats.IncomingCount = &inCount
	}

	return outUniform && inUniform, stats
}

// uniform returns the common value of degrees, if there is one
func uniform(degrees map[ParticipantID]int) (int, bool) {
	values := lo.Uniq(lo.Values(degrees))
	if len(values) != 1 {
		return 0, false
	}
	return values[0], true
}

// CheckEdges rejects self assignments and repeated edges
func CheckEdges(d Distribution) error {
	for sender, recipients := range d {
		seen := make(map[ParticipantID]struct{}, len(recipients))
		for _, r := range recipients {
			if r == sender {
				return fmt.Errorf("%w: %d", ErrSelfPair, sender)
			}
			if _, dup := seen[r]; dup {
				return fmt.Errorf("%w: %d -> %d", ErrDuplicateEdge, sender, r)
			}
			seen[r] = struct{}{}
		}
	}
	return nil
}

// Senders returns the distribution's senders in ascending order
func Senders(d Distribution) []ParticipantID {
	senders := lo.Keys(d)
	sort.Slice(senders, func(i, j int) bool { return senders[i] < senders[j] })
	return senders
}

// Edges flattens the distribution, ordered by sender then assignment order
func Edges(d Distribution) []Edge {
	var edges []Edge
	for _, sender := range Senders(d) {
		for _, r := range d[sender] {
			edges = append(edges, Edge{Sender: sender, Recipient: r})
		}
	}
	return edges
}
