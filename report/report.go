// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/models"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
)

// WriteVerdict prints whether the distribution is balanced
func WriteVerdict(w io.Writer, valid bool, stats pairing.Stats) {
	if !valid {
		fmt.Fprintln(w, color.Yellow.Sprint("⚠ Distribution is not balanced"))
		return
	}
	fmt.Fprintln(w, color.Green.Sprint("✓ Distribution is balanced"))
	fmt.Fprintf(w, "  Everyone writes to: %s\n", people(stats.OutgoingCount))
	fmt.Fprintf(w, "  Everyone hears from: %s\n", people(stats.IncomingCount))
}

// WriteDistribution prints the verdict, one row per sender and the statistics
func WriteDistribution(w io.Writer, o coordinator.Overview) {
	if len(o.Distribution) == 0 {
		fmt.Fprintln(w, "No distribution found")
		return
	}

	WriteVerdict(w, o.Valid, o.Stats)
	fmt.Fprintln(w)

	statuses := lo.SliceToMap(o.Assignments, func(a models.Assignment) (pairing.Edge, models.DeliveryStatus) {
		return pairing.Edge{Sender: a.Sender, Recipient: a.Recipient}, a.Status
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sender", "ID", "Writes to", "Status"})
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	for _, sender := range pairing.Senders(o.Distribution) {
		recipients := o.Distribution[sender]
		names := lo.Map(recipients, func(r int64, _ int) string { return o.Name(r) })
		states := lo.Map(recipients, func(r int64, _ int) string {
			return statuses[pairing.Edge{Sender: sender, Recipient: r}].String()
		})
		table.Append([]string{
			o.Name(sender),
			strconv.FormatInt(sender, 10),
			strings.Join(names, "\n"),
			strings.Join(states, "\n"),
		})
	}
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Total users: %d\n", o.Stats.TotalUsers)
	if o.Stats.OutgoingCount != nil {
		fmt.Fprintf(w, "  Letters per sender: %d\n", *o.Stats.OutgoingCount)
	}
	if o.Stats.IncomingCount != nil {
		fmt.Fprintf(w, "  Letters per recipient: %d\n", *o.Stats.IncomingCount)
	}

	counts := lo.CountValuesBy(o.Assignments, func(a models.Assignment) models.DeliveryStatus { return a.Status })
	fmt.Fprintf(w, "  Letters: %s total, %s sent, %s delivered\n",
		humanize.Comma(int64(len(o.Assignments))),
		humanize.Comma(int64(counts[models.StatusSent])),
		humanize.Comma(int64(counts[models.StatusDelivered])),
	)
}

// WriteTimeline prints cumulative confirmed registrations
func WriteTimeline(w io.Writer, points []models.TimelinePoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No confirmed users with registration times")
		return
	}

	first, last := points[0], points[len(points)-1]
	fmt.Fprintf(w, "Confirmed users: %d\n", last.Cumulative)
	fmt.Fprintf(w, "Period: %s - %s\n\n", first.At.Format("2006-01-02 15:04"), last.At.Format("2006-01-02 15:04"))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "New", "Total", "Since first"})
	for _, p := range points {
		since := "start"
		if p.At.After(first.At) {
			since = humanize.RelTime(first.At, p.At, "later", "earlier")
		}
		table.Append([]string{
			p.At.Format("15:04"),
			strconv.Itoa(p.Registered),
			strconv.Itoa(p.Cumulative),
			since,
		})
	}
	table.Render()
}

// WriteBroadcast prints the outcome of a broadcast
func WriteBroadcast(w io.Writer, r notify.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.Green.Sprintf("✅ Sent: %d", r.Sent))
	fmt.Fprintln(w, color.Red.Sprintf("❌ Errors: %d", r.Failed))
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped (no recipients): %d\n", r.Skipped)
	}
	if len(r.FailedIDs) > 0 {
		fmt.Fprintf(w, "Failed IDs: %v\n", r.FailedIDs)
	}
}

func people(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d people", *n)
}
