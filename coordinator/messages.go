// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"strings"

	"github.com/danielhkuo/secret-post/models"
)

const (
	WelcomeText          = "Hi! Confirm that you take part in the New Year Post."
	ConfirmedText        = "Great, you're in! Wait for our messages."
	AlreadyConfirmedText = "You're already in!"

	assignmentsIntro = `The holiday mood is something we make ourselves: buying gifts, playing winter songs, planning get-togethers… and writing letters.

Paper ones, where you can put all your creativity, the kindest words about this year and the warmest wishes for the next!
<blockquote>Here are your New Year Post recipients:
`
	assignmentsOutro = `</blockquote>Write each of them a letter and don't forget to bring them to the party.`

	ReminderText = `The party is coming soon, and so is the mail!

How to send a letter:
1. Drop your letters at the mail point
2. Scan the QR code and mark in the bot who you sent letters to

Every letter must be in an envelope signed with the RECIPIENT's first and last name. Envelopes are available at the mail point.

How to receive a letter:
1. You get a notification that a letter has arrived
2. Pick it up at the mail point`

	LetterArrivedText = "📬 A letter for you has arrived! Pick it up at the mail point."
)

// AssignmentsText lists the recipients' contacts for a sender
func AssignmentsText(recipients []models.User) string {
	var b strings.Builder
	b.WriteString(assignmentsIntro)
	for _, r := range recipients {
		b.WriteString(r.Contact())
		b.WriteString("\n")
	}
	b.WriteString(assignmentsOutro)
	return b.String()
}
