package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/petfurme/petcal/internal/appointment"
)

// ViewMode selects between the single-day list and the full list.
type ViewMode string

const (
	ViewModeDay ViewMode = "day"
	ViewModeAll ViewMode = "all"
)

// ParseViewMode validates a wire view-mode string, defaulting empty to all.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewModeDay, ViewModeAll:
		return ViewMode(s), nil
	case "":
		return ViewModeAll, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Filter returns the appointments for the current view mode. Day mode matches
// by local calendar date only; all mode returns the working set untouched, in
// store (= server) order. Switching modes never mutates the selected date.
func Filter(appts []appointment.Appointment, mode ViewMode, selected time.Time) []appointment.Appointment {
	if mode != ViewModeDay {
		return appts
	}
	var out []appointment.Appointment
	for _, a := range appts {
		if appointment.SameDay(a.Date, selected) {
			out = append(out, a)
		}
	}
	return out
}

// Digest summarizes the user's upcoming schedule: the soonest pending or
// confirmed appointment that is not yet past, and how many such appointments
// exist in total.
type Digest struct {
	Next  *appointment.Appointment
	Count int
}

// Upcoming derives the digest from the working set, ordering candidates by
// date then slot time ascending.
func Upcoming(appts []appointment.Appointment, now time.Time) Digest {
	var candidates []appointment.Appointment
	for _, a := range appts {
		if a.IsUpcoming() && !a.IsPast(now) {
			candidates = append(candidates, a)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := appointment.DateOnly(candidates[i].Date), appointment.DateOnly(candidates[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return candidates[i].TimeOfDay < candidates[j].TimeOfDay
	})

	d := Digest{Count: len(candidates)}
	if len(candidates) > 0 {
		d.Next = &candidates[0]
	}
	return d
}
