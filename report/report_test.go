// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
)

func TestWriteDistribution(t *testing.T) {
	dist := pairing.Distribution{1: {2}, 2: {3}, 3: {1}}
	valid, stats := pairing.Verify(dist)
	o := coordinator.Overview{
		Assignments: []models.Assignment{
			{Sender: 1, Recipient: 2, Status: models.StatusDelivered},
			{Sender: 2, Recipient: 3, Status: models.StatusSent},
			{Sender: 3, Recipient: 1, Status: models.StatusPending},
		},
		Distribution: dist,
		Users: map[int64]models.User{
			1: {ID: 1, FirstName: lo.ToPtr("Ivan"), LastName: lo.ToPtr("Ivanov")},
			2: {ID: 2, FirstName: lo.ToPtr("Petr")},
		},
		Valid: valid,
		Stats: stats,
	}

	var buf bytes.Buffer
	WriteDistribution(&buf, o)
	out := buf.String()

	assert.Contains(t, out, "Distribution is balanced")
	assert.Contains(t, out, "Everyone writes to: 1 people")
	assert.Contains(t, out, "Ivan Ivanov")
	assert.Contains(t, out, "Petr")
	assert.Contains(t, out, "ID: 3")
	assert.Contains(t, out, "delivered")
	assert.Contains(t, out, "Total users: 3")
	assert.Contains(t, out, "Letters: 3 total, 1 sent, 1 delivered")
}

func TestWriteDistribution_Unbalanced(t *testing.T) {
	dist := pairing.Distribution{1: {2, 3}, 2: {1}}
	valid, stats := pairing.Verify(dist)

	var buf bytes.Buffer
	WriteDistribution(&buf, coordinator.Overview{Distribution: dist, Valid: valid, Stats: stats})
	out := buf.String()

	assert.Contains(t, out, "not balanced")
	assert.NotContains(t, out, "Letters per sender")
}

func TestWriteDistribution_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteDistribution(&buf, coordinator.Overview{})
	assert.Equal(t, "No distribution found\n", buf.String())
}

func TestWriteTimeline(t *testing.T) {
	start := time.Date(2025, 12, 1, 14, 14, 0, 0, time.UTC)
	points := []models.TimelinePoint{
		{At: start, Registered: 2, Cumulative: 2},
		{At: start.Add(6 * time.Minute), Registered: 3, Cumulative: 5},
	}

	var buf bytes.Buffer
	WriteTimeline(&buf, points)
	out := buf.String()

	assert.Contains(t, out, "Confirmed users: 5")
	assert.Contains(t, out, "Period: 2025-12-01 14:14 - 2025-12-01 14:20")
	assert.Contains(t, out, "14:20")
	assert.Contains(t, out, "6 minutes later")

	buf.Reset()
	WriteTimeline(&buf, nil)
	assert.Contains(t, buf.String(), "No confirmed users")
}

func TestWriteBroadcast(t *testing.T) {
	var buf bytes.Buffer
	WriteBroadcast(&buf, notify.Report{Total: 4, Sent: 2, Failed: 1, Skipped: 1, FailedIDs: []int64{42}})
	out := buf.String()

	assert.Contains(t, out, "Sent: 2")
	assert.Contains(t, out, "Errors: 1")
	assert.Contains(t, out, "Skipped (no recipients): 1")
	assert.Contains(t, out, "[42]")
}
