package petapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/petfurme/petcal/internal/appointment"
)

func TestListAppointments(t *testing.T) {
	payload := `[
		{"id": 1, "user_id": 42, "pet_name": "Mochi", "status": "pending",
		 "appointment_date": "2024-06-15", "appointment_time": "10:00:00",
		 "reason_for_visit": "[\"Vaccination\",\"Checkup\"]", "deleted_at": null},
		{"id": "2", "user_id": "42", "pet_name": "Luna", "status": "confirmed",
		 "appointment_date": "2024-06-16T00:00:00", "appointment_time": "14:30",
		 "reason_for_visit": "not json", "deleted_at": null},
		{"id": 3, "user_id": 42, "pet_name": "Biscuit", "status": "sleeping",
		 "appointment_date": "2024-06-17", "appointment_time": "09:00",
		 "reason_for_visit": "[]", "deleted_at": null}
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "42" {
			t.Errorf("user_id = %s, want 42", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	got, err := c.ListAppointments(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListAppointments() error: %v", err)
	}

	// Record 3 has an unknown status and must be dropped, not fail the fetch.
	if len(got) != 2 {
		t.Fatalf("got %d appointments, want 2", len(got))
	}

	if got[0].ID != 1 || got[0].PetName != "Mochi" {
		t.Errorf("first record = %+v", got[0])
	}
	if !reflect.DeepEqual(got[0].Reasons, []string{"Vaccination", "Checkup"}) {
		t.Errorf("reasons = %v", got[0].Reasons)
	}
	if got[0].TimeOfDay != "10:00" {
		t.Errorf("slot = %s, want 10:00 (seconds trimmed)", got[0].TimeOfDay)
	}

	// Malformed reasons degrade to empty, string ids still decode.
	if got[1].ID != 2 || got[1].Reasons != nil {
		t.Errorf("second record = %+v", got[1])
	}
	if got[1].Date.Day() != 16 {
		t.Errorf("timestamp date should reduce to June 16, got %v", got[1].Date)
	}
}

func TestListAppointmentsNonArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Failed to fetch appointments"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	if _, err := c.ListAppointments(context.Background(), 42); err == nil {
		t.Fatal("expected an error for a non-array payload")
	}
}

func TestListAppointmentsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.ListAppointments(context.Background(), 42)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("error = %v, want ErrBackend", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments/update-status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"success": true, "message": "Appointment status updated successfully"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	if err := c.UpdateStatus(context.Background(), 7, appointment.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
}

func TestUpdateStatusBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "message": "Appointment not found or no changes made"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	err := c.UpdateStatus(context.Background(), 7, appointment.StatusCancelled)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("error = %v, want ErrBackend", err)
	}
}

func TestParseReasons(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain list", `["Vaccination","Grooming"]`, []string{"Vaccination", "Grooming"}},
		{"double encoded", `"[\"Vaccination\"]"`, []string{"Vaccination"}},
		{"not json", "not json", nil},
		{"empty", "", nil},
		{"json but wrong shape", `{"reason": "Checkup"}`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseReasons(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseReasons(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
