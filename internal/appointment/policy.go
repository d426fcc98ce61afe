package appointment

import (
	"strings"
	"time"
)

// Actions are the per-appointment action flags the presentation layer renders.
// A false flag means the button shows disabled, not that a press is declined.
type Actions struct {
	CanCancel     bool `json:"can_cancel"`
	CanReschedule bool `json:"can_reschedule"`
}

// ActionsFor applies the transition policy to a single appointment.
//
// Cancel is legal only for a pending appointment; reschedule only for a
// pending, still-upcoming one. Both are forced off once the slot is in the
// past, independent of status, so a stale pending appointment renders with
// disabled buttons.
func ActionsFor(a Appointment, now time.Time) Actions {
	if a.IsPast(now) {
		return Actions{}
	}
	return Actions{
		CanCancel:     a.Status == StatusPending,
		CanReschedule: a.Status == StatusPending && a.IsUpcoming(),
	}
}

// Display is the badge label and background color for a status.
type Display struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// statusColors matches the badge palette of the mobile screen.
var statusColors = map[Status]string{
	StatusPending:   "#FFA500",
	StatusConfirmed: "#E6F3FF",
	StatusCompleted: "#E8E8E8",
	StatusCancelled: "#FFE6E6",
	StatusMissed:    "#FF4444",
}

const defaultStatusColor = "#E8E8E8"

// DisplayFor maps a status to its badge. Missed gets a hard-coded label;
// every other status renders as itself with the first letter capitalized.
func DisplayFor(s Status) Display {
	color, ok := statusColors[s]
	if !ok {
		color = defaultStatusColor
	}
	if s == StatusMissed {
		return Display{Label: "Missed Appointment", Color: color}
	}
	return Display{Label: capitalize(string(s)), Color: color}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
