// Package staleness classifies sent emails by elapsed time since send,
// using the configurable minute thresholds from the settings row.
package staleness

import (
	"fmt"
	"time"
)

// Status is the display classification of a tracked email.
type Status string

const (
	StatusFresh     Status = "fresh"
	StatusRecent    Status = "recent"
	StatusAging     Status = "aging"
	StatusStale     Status = "stale"
	StatusVeryStale Status = "very-stale"
	// StatusResponded overrides the elapsed-time buckets once a reply
	// was detected or the email was manually marked.
	StatusResponded Status = "responded"
)

// Thresholds are the four ascending minute boundaries
// (white <= blue <= yellow <= red).
type Thresholds struct {
	WhiteMinutes  int
	BlueMinutes   int
	YellowMinutes int
	RedMinutes    int
}

// Classify maps elapsed minutes since send to a status bucket. Negative
// elapsed values clamp to 0. Responded emails always classify as
// StatusResponded regardless of elapsed time.
func Classify(elapsedMinutes int, responded bool, t Thresholds) Status {
	if responded {
		return StatusResponded
	}
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}

	switch {
	case elapsedMinutes <= t.WhiteMinutes:
		return StatusFresh
	case elapsedMinutes <= t.BlueMinutes:
		return StatusRecent
	case elapsedMinutes <= t.YellowMinutes:
		return StatusAging
	case elapsedMinutes <= t.RedMinutes:
		return StatusStale
	default:
		return StatusVeryStale
	}
}

// ElapsedMinutes returns the whole minutes between sentAt and now,
// clamped to 0 for future timestamps.
func ElapsedMinutes(sentAt, now time.Time) int {
	minutes := int(now.Sub(sentAt).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// FormatRelativeTime renders "how long ago" for a send timestamp:
// "just now" under a minute, then minutes, then hours, then days with
// the remainder-hours clause omitted when it is exactly zero.
func FormatRelativeTime(sentAt, now time.Time) string {
	seconds := int(now.Sub(sentAt).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	}

	remainingHours := hours % 24
	if remainingHours == 0 {
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
	return fmt.Sprintf("%d %s and %d %s ago",
		days, plural(days, "day"),
		remainingHours, plural(remainingHours, "hour"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
