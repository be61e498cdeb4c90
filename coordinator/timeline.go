// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/danielhkuo/secret-post/models"
)

var ErrInvalidBucket = errors.New("bucket must be positive")

// Timeline counts confirmed registrations per time bucket, with a running total.
// Empty buckets between the first and last registration are omitted.
func (s *Service) Timeline(ctx context.Context, bucket time.Duration) ([]models.TimelinePoint, error) {
	if bucket <= 0 {
		return nil, ErrInvalidBucket
	}

	users, err := s.store.ConfirmedUsers(ctx)
	if err != nil {
		return nil, err
	}

	return timeline(users, bucket), nil
}

func timeline(users []models.User, bucket time.Duration) []models.TimelinePoint {
	counts := make(map[time.Time]int)
	for _, u := range users {
		counts[u.RegisteredAt.UTC().Truncate(bucket)]++
	}

	points := make([]models.TimelinePoint, 0, len(counts))
	for at, n := range counts {
		points = append(points, models.TimelinePoint{At: at, Registered: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })

	total := 0
	for i := range points {
		total += points[i].Registered
		points[i].Cumulative = total
	}
	return points
}
