package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
)

// Store aggregates the engine's in-memory repositories. It holds the working
// set the sync controller maintains and the projection layers read; it never
// performs I/O of its own.
type Store struct {
	Appointments  AppointmentRepository
	Notifications NotificationRepository
}

// New wires the in-memory repository implementations.
func New(logger *zap.Logger) *Store {
	return &Store{
		Appointments:  newAppointmentRepo(logger),
		Notifications: newNotificationRepo(),
	}
}

// Patch carries the optional fields a partial update may merge into an
// appointment. Nil fields are left untouched.
type Patch struct {
	Status    *appointment.Status
	Date      *time.Time
	TimeOfDay *string
}

// AppointmentRepository holds the authoritative local appointment list.
type AppointmentRepository interface {
	// ReplaceAll swaps the entire working set after a full fetch, dropping
	// any record carrying a soft-delete marker. Server order is preserved.
	ReplaceAll(appts []appointment.Appointment)

	// Patch merges fields into the record matching id. A missing id is a
	// logged no-op returning ErrNotFound, never a panic.
	Patch(id int64, p Patch) error

	// Get returns a copy of the record matching id.
	Get(id int64) (*appointment.Appointment, error)

	// List returns a copy of the working set in server order.
	List() []appointment.Appointment
}

// NotificationRepository records client-visible status-change notifications
// produced by the watcher.
type NotificationRepository interface {
	Append(n Notification)
	List() []Notification
}
