package appointment

import (
	"fmt"
	"time"
)

// Appointment is a scheduled veterinary visit as held by the client engine.
// Instances arrive from the backend via the sync controller; the calendar and
// policy logic never construct them ad hoc.
type Appointment struct {
	ID      int64
	UserID  int64
	PetName string
	Status  Status

	// Date carries the calendar day only; the clock fields are always zero.
	Date time.Time

	// TimeOfDay is the 24-hour "HH:MM" slot time.
	TimeOfDay string

	Reasons []string

	// DeletedAt marks a soft-deleted record. The store refuses to hold these.
	DeletedAt *time.Time
}

// SameDay reports whether two instants fall on the same local calendar day.
// Comparison is by year, month and day-of-month only, never by instant.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly strips the time-of-day from t, keeping the local calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsPast reports whether the appointment's date and slot time are behind now,
// compared in local time. On the current day the "HH:MM" slot decides; an
// unparseable slot falls back to comparing dates only.
func (a Appointment) IsPast(now time.Time) bool {
	today := DateOnly(now)
	day := DateOnly(a.Date)
	if day.Before(today) {
		return true
	}
	if !SameDay(day, today) {
		return false
	}

	var hh, mm int
	if _, err := fmt.Sscanf(a.TimeOfDay, "%d:%d", &hh, &mm); err != nil {
		return false
	}
	return hh*60+mm < now.Hour()*60+now.Minute()
}

// IsUpcoming reports whether the appointment still counts toward the user's
// upcoming schedule (pending or confirmed).
func (a Appointment) IsUpcoming() bool {
	return a.Status.Upcoming()
}
