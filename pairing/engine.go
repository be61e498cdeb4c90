// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pairing

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

var (
	ErrInvalidK             = errors.New("k must be positive")
	ErrDuplicateParticipant = errors.New("duplicate participant")
)

// ParticipantID identifies a participant (chat user ID)
type ParticipantID = int64

// Distribution maps each sender to its recipients in assignment order
type Distribution map[ParticipantID][]ParticipantID

// Shuffler is the randomness source consumed by the engine.
// *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Engine builds distributions from a participant snapshot
type Engine struct {
	mu  sync.Mutex
	rnd Shuffler
}

func NewEngine(rnd Shuffler) *Engine {
	return &Engine{rnd: rnd}
}

// NewSeededEngine returns an engine whose permutations are reproducible
func NewSeededEngine(seed uint64) *Engine {
	return NewEngine(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func NewRandomEngine() *Engine {
	return NewSeededEngine(uint64(time.Now().UnixNano())) // #nosec G404
}

// DefaultK is the number of recipients per sender when none is requested
func DefaultK(n int) int {
	return max(1, n/2)
}

// EffectiveK clamps k so nobody is asked for more distinct recipients than exist
func EffectiveK(n, k int) int {
	return min(k, n-1)
}

// Build assigns k recipients to every participant.
// A nil k selects DefaultK. Fewer than 2 participants yields an empty distribution.
func (e *Engine) Build(participants []ParticipantID, k *int) (Distribution, error) {
	if k != nil && *k <= 0 {
		return nil, ErrInvalidK
	}

	seen := make(map[ParticipantID]struct{}, len(participants))
	for _, id := range participants {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateParticipant
		}
		seen[id] = struct{}{}
	}

	n := len(participants)
	if n < 2 {
		return Distribution{}, nil
	}

	want := DefaultK(n)
	if k != nil {
		want = *k
	}
	want = EffectiveK(n, want)

	perm := make([]ParticipantID, n)
	copy(perm, participants)
	e.shuffle(perm)

	// Circulant graph over the permutation: offset j maps position i to i+j,
	// which is itself a permutation, so each offset adds one in-edge per participant.
	dist := make(Distribution, n)
	for i, sender := range perm {
		recipients := make([]ParticipantID, 0, want)
		for j := 1; j <= want; j++ {
			recipients = append(recipients, perm[(i+j)%n])
		}
		dist[sender] = recipients
	}

	return dist, nil
}

func (e *Engine) shuffle(ids []ParticipantID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rnd.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
