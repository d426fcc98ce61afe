package calendar

import (
	"testing"
	"time"

	"github.com/petfurme/petcal/internal/appointment"
)

func TestFilterDayMode(t *testing.T) {
	appts := []appointment.Appointment{
		{ID: 1, Date: day(2024, time.June, 15)},
		{ID: 2, Date: day(2024, time.June, 16)},
		// Stored date carrying a stray time component still matches by day.
		{ID: 3, Date: time.Date(2024, time.June, 15, 9, 30, 0, 0, time.Local)},
	}

	got := Filter(appts, ViewModeDay, day(2024, time.June, 15))
	if len(got) != 2 {
		t.Fatalf("day mode returned %d appointments, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("day mode order = [%d %d], want [1 3]", got[0].ID, got[1].ID)
	}
}

func TestFilterAllModeKeepsStoreOrder(t *testing.T) {
	appts := []appointment.Appointment{
		{ID: 5, Date: day(2024, time.June, 20)},
		{ID: 3, Date: day(2024, time.June, 1)},
		{ID: 9, Date: day(2024, time.June, 10)},
	}

	got := Filter(appts, ViewModeAll, day(2024, time.June, 1))
	if len(got) != 3 {
		t.Fatalf("all mode returned %d appointments, want 3", len(got))
	}
	for i, want := range []int64{5, 3, 9} {
		if got[i].ID != want {
			t.Errorf("all mode position %d = %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestParseViewMode(t *testing.T) {
	if m, err := ParseViewMode(""); err != nil || m != ViewModeAll {
		t.Errorf("ParseViewMode(empty) = %v, %v", m, err)
	}
	if m, err := ParseViewMode("day"); err != nil || m != ViewModeDay {
		t.Errorf("ParseViewMode(day) = %v, %v", m, err)
	}
	if _, err := ParseViewMode("week"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2024, time.June, 20, 12, 0, 0, 0, time.Local)
	appts := []appointment.Appointment{
		{ID: 1, Status: appointment.StatusConfirmed, Date: day(2024, time.June, 25), TimeOfDay: "10:00"},
		{ID: 2, Status: appointment.StatusPending, Date: day(2024, time.June, 22), TimeOfDay: "14:00"},
		{ID: 3, Status: appointment.StatusPending, Date: day(2024, time.June, 22), TimeOfDay: "09:00"},
		{ID: 4, Status: appointment.StatusCancelled, Date: day(2024, time.June, 21), TimeOfDay: "08:00"},
		{ID: 5, Status: appointment.StatusPending, Date: day(2024, time.June, 10), TimeOfDay: "08:00"}, // stale pending
	}

	d := Upcoming(appts, now)
	if d.Count != 3 {
		t.Fatalf("Count = %d, want 3", d.Count)
	}
	if d.Next == nil || d.Next.ID != 3 {
		t.Fatalf("Next = %+v, want id 3 (earliest slot on the earliest day)", d.Next)
	}
}

func TestUpcomingEmpty(t *testing.T) {
	d := Upcoming(nil, time.Now())
	if d.Next != nil || d.Count != 0 {
		t.Errorf("empty digest = %+v", d)
	}
}
