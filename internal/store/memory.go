package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
)

type appointmentRepo struct {
	mu     sync.RWMutex
	appts  []appointment.Appointment
	logger *zap.Logger
}

func newAppointmentRepo(logger *zap.Logger) *appointmentRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appointmentRepo{logger: logger}
}

func (r *appointmentRepo) ReplaceAll(appts []appointment.Appointment) {
	kept := make([]appointment.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.DeletedAt != nil {
			continue
		}
		a.Reasons = cloneReasons(a.Reasons)
		kept = append(kept, a)
	}

	r.mu.Lock()
	r.appts = kept
	r.mu.Unlock()
}

func (r *appointmentRepo) Patch(id int64, p Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appts {
		if r.appts[i].ID != id {
			continue
		}
		if p.Status != nil {
			r.appts[i].Status = *p.Status
		}
		if p.Date != nil {
			r.appts[i].Date = *p.Date
		}
		if p.TimeOfDay != nil {
			r.appts[i].TimeOfDay = *p.TimeOfDay
		}
		return nil
	}

	r.logger.Warn("patch for unknown appointment", zap.Int64("appointment_id", id))
	return ErrNotFound
}

func (r *appointmentRepo) Get(id int64) (*appointment.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appts {
		if a.ID == id {
			a.Reasons = cloneReasons(a.Reasons)
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *appointmentRepo) List() []appointment.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointment.Appointment, len(r.appts))
	copy(out, r.appts)
	for i := range out {
		out[i].Reasons = cloneReasons(out[i].Reasons)
	}
	return out
}

func cloneReasons(reasons []string) []string {
	if reasons == nil {
		return nil
	}
	out := make([]string, len(reasons))
	copy(out, reasons)
	return out
}

// Notification is one recorded status change, surfaced to the user the next
// time the notification list is read.
type Notification struct {
	ID            string             `json:"id"`
	AppointmentID int64              `json:"appointment_id"`
	PetName       string             `json:"pet_name"`
	From          appointment.Status `json:"from"`
	To            appointment.Status `json:"to"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

type notificationRepo struct {
	mu    sync.RWMutex
	notes []Notification
}

func newNotificationRepo() *notificationRepo {
	return &notificationRepo{}
}

func (r *notificationRepo) Append(n Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

func (r *notificationRepo) List() []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Notification, len(r.notes))
	copy(out, r.notes)
	return out
}
