package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/store"
)

// scriptedRefresher swaps scripted store states into the store on each call.
type scriptedRefresher struct {
	store  *store.Store
	states [][]appointment.Appointment
	err    error
	calls  int
}

func (s *scriptedRefresher) Refresh(context.Context) error {
	if s.err != nil {
		return s.err
	}
	if s.calls < len(s.states) {
		s.store.Appointments.ReplaceAll(s.states[s.calls])
	}
	s.calls++
	return nil
}

func appt(id int64, status appointment.Status) appointment.Appointment {
	return appointment.Appointment{
		ID:        id,
		PetName:   "Mochi",
		Status:    status,
		Date:      time.Date(2024, time.June, 25, 0, 0, 0, 0, time.Local),
		TimeOfDay: "10:00",
	}
}

func TestRunOnceRecordsTransitions(t *testing.T) {
	st := store.New(nil)
	st.Appointments.ReplaceAll([]appointment.Appointment{appt(1, appointment.StatusPending)})

	r := &scriptedRefresher{store: st, states: [][]appointment.Appointment{
		{appt(1, appointment.StatusConfirmed)},
		{appt(1, appointment.StatusConfirmed)},
	}}

	w := New(r, st, time.Minute, nil)
	w.prime()

	w.RunOnce(context.Background())
	notes := st.Notifications.List()
	if len(notes) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notes))
	}
	if notes[0].From != appointment.StatusPending || notes[0].To != appointment.StatusConfirmed {
		t.Errorf("notification = %+v", notes[0])
	}
	if notes[0].AppointmentID != 1 || notes[0].PetName != "Mochi" {
		t.Errorf("notification identity = %+v", notes[0])
	}

	// An unchanged status on the next poll produces nothing new.
	w.RunOnce(context.Background())
	if got := st.Notifications.List(); len(got) != 1 {
		t.Errorf("unchanged poll added notifications: %d", len(got))
	}
}

func TestRunOnceIgnoresNewRecords(t *testing.T) {
	st := store.New(nil)

	r := &scriptedRefresher{store: st, states: [][]appointment.Appointment{
		{appt(5, appointment.StatusPending)},
	}}

	w := New(r, st, time.Minute, nil)
	w.prime()

	// A record never seen before sets the baseline but is not a transition.
	w.RunOnce(context.Background())
	if got := st.Notifications.List(); len(got) != 0 {
		t.Fatalf("new record produced %d notifications", len(got))
	}
}

func TestRunOnceRefreshFailure(t *testing.T) {
	st := store.New(nil)
	st.Appointments.ReplaceAll([]appointment.Appointment{appt(1, appointment.StatusPending)})

	w := New(&scriptedRefresher{store: st, err: errors.New("backend down")}, st, time.Minute, nil)
	w.prime()

	w.RunOnce(context.Background())
	if got := st.Notifications.List(); len(got) != 0 {
		t.Errorf("failed refresh produced %d notifications", len(got))
	}
}
