package petapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/calendar"
)

// wireAppointment mirrors the backend row shape. Numeric columns arrive as
// numbers or strings depending on the driver, so everything integral goes
// through flexInt.
type wireAppointment struct {
	ID        flexInt `json:"id"`
	UserID    flexInt `json:"user_id"`
	PetName   string  `json:"pet_name"`
	Status    string  `json:"status"`
	Date      string  `json:"appointment_date"`
	TimeOfDay string  `json:"appointment_time"`
	Reasons   string  `json:"reason_for_visit"`
	DeletedAt *string `json:"deleted_at"`
}

// flexInt decodes a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %q", s)
	}
	*f = flexInt(n)
	return nil
}

// decodeAppointment validates one wire record into the strict model. Bad
// reasons degrade to an empty list; a bad id, status or date rejects the
// record.
func decodeAppointment(msg json.RawMessage) (appointment.Appointment, error) {
	var w wireAppointment
	if err := json.Unmarshal(msg, &w); err != nil {
		return appointment.Appointment{}, err
	}

	if w.ID == 0 {
		return appointment.Appointment{}, fmt.Errorf("missing id")
	}

	status, ok := appointment.ParseStatus(w.Status)
	if !ok {
		return appointment.Appointment{}, fmt.Errorf("appointment %d: unknown status %q", w.ID, w.Status)
	}

	date, err := calendar.ParseDate(w.Date)
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("appointment %d: %w", w.ID, err)
	}

	a := appointment.Appointment{
		ID:        int64(w.ID),
		UserID:    int64(w.UserID),
		PetName:   w.PetName,
		Status:    status,
		Date:      date,
		TimeOfDay: normalizeSlot(w.TimeOfDay),
		Reasons:   ParseReasons(w.Reasons),
	}

	if w.DeletedAt != nil && strings.TrimSpace(*w.DeletedAt) != "" {
		if t, err := calendar.ParseDate(*w.DeletedAt); err == nil {
			a.DeletedAt = &t
		} else {
			// Unparseable but present still means soft-deleted.
			now := time.Now()
			a.DeletedAt = &now
		}
	}

	return a, nil
}

// normalizeSlot trims "HH:MM:SS" to "HH:MM".
func normalizeSlot(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 5 && strings.Count(s, ":") == 2 {
		return s[:5]
	}
	return s
}

// ParseReasons decodes the reason_for_visit column, which is a JSON-encoded
// list of strings that is sometimes double-encoded and occasionally not JSON
// at all. Anything unusable degrades to an empty list; the render path never
// sees an error from here.
func ParseReasons(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var reasons []string
	if err := json.Unmarshal([]byte(raw), &reasons); err == nil {
		return reasons
	}

	// Double-encoded: a JSON string whose contents are the real list.
	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &reasons); err == nil {
			return reasons
		}
	}

	return nil
}
