package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/calendar"
	"github.com/petfurme/petcal/internal/confirm"
	httperrors "github.com/petfurme/petcal/internal/http/errors"
	"github.com/petfurme/petcal/internal/store"
	"github.com/petfurme/petcal/internal/syncer"
)

// appointmentView is one appointment card: raw fields plus everything the
// client otherwise derives per render (action flags, badge label and color,
// display-formatted date and slot).
type appointmentView struct {
	ID       int64               `json:"id"`
	PetName  string              `json:"pet_name"`
	Status   appointment.Status  `json:"status"`
	Date     string              `json:"date"`
	Time     string              `json:"time"`
	Reasons  []string            `json:"reasons"`
	Actions  appointment.Actions `json:"actions"`
	Display  appointment.Display `json:"display"`
	DateText string              `json:"date_text"`
	TimeText string              `json:"time_text"`
}

func (h *Handler) viewOf(a appointment.Appointment, now time.Time) appointmentView {
	return appointmentView{
		ID:       a.ID,
		PetName:  a.PetName,
		Status:   a.Status,
		Date:     a.Date.Format("2006-01-02"),
		Time:     a.TimeOfDay,
		Reasons:  a.Reasons,
		Actions:  appointment.ActionsFor(a, now),
		Display:  appointment.DisplayFor(a.Status),
		DateText: formatDisplayDate(a.Date),
		TimeText: formatDisplayTime(a.TimeOfDay),
	}
}

// Appointments lists appointments, either the whole store or the ones on a
// selected day.
//
//	GET /api/appointments?mode=day&selected=2024-06-15
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	mode, err := calendar.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		httperrors.BadRequestError(w, r, err, "unknown view mode")
		return
	}

	var selected time.Time
	if mode == calendar.ViewModeDay {
		selected, err = calendar.ParseDate(r.URL.Query().Get("selected"))
		if err != nil {
			httperrors.BadRequestError(w, r, err, "invalid selected date")
			return
		}
	}

	now := h.clock.Now()
	appts := calendar.Filter(h.store.Appointments.List(), mode, selected)
	views := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, h.viewOf(a, now))
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"mode":         mode,
		"appointments": views,
	})
}

// Next reports the soonest upcoming appointment and how many are queued
// behind it.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	digest := calendar.Upcoming(h.store.Appointments.List(), now)

	resp := map[string]any{"upcoming_count": digest.Count}
	if digest.Next != nil {
		resp["next"] = h.viewOf(*digest.Next, now)
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// RescheduleContext hands back the fields a reschedule form needs. It refuses
// appointments the policy no longer allows to move.
func (h *Handler) RescheduleContext(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperrors.BadRequestError(w, r, err, "invalid appointment id")
		return
	}

	a, err := h.store.Appointments.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		httperrors.InternalError(w, r, err, "load appointment")
		return
	}

	now := h.clock.Now()
	if !appointment.ActionsFor(*a, now).CanReschedule {
		h.writeJSON(w, r, http.StatusConflict, map[string]any{
			"error":  "appointment can no longer be rescheduled",
			"status": a.Status,
		})
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"appointment_id": a.ID,
		"pet_name":       a.PetName,
		"date":           a.Date.Format("2006-01-02"),
		"time":           a.TimeOfDay,
		"reasons":        a.Reasons,
	})
}

type cancelRequest struct {
	Confirmed bool `json:"confirmed"`
}

// Cancel runs the full cancellation flow for one appointment. The caller's
// confirmation answer rides in the body; declining is a perfectly fine
// outcome and reports cancelled=false.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperrors.BadRequestError(w, r, err, "invalid appointment id")
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}

	ctx := confirm.WithAnswer(r.Context(), req.Confirmed)
	cancelled, err := h.sync.Cancel(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	case errors.Is(err, syncer.ErrNotCancellable):
		h.writeJSON(w, r, http.StatusConflict, map[string]any{
			"error": "appointment can no longer be cancelled",
		})
		return
	case errors.Is(err, syncer.ErrClosed):
		http.Error(w, "service shutting down", http.StatusServiceUnavailable)
		return
	case err != nil:
		httperrors.LogError(r, "cancel appointment", err)
		h.writeJSON(w, r, http.StatusBadGateway, map[string]any{
			"error": "clinic backend rejected the cancellation",
		})
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"cancelled": cancelled})
}

// Refresh forces a fetch from the clinic backend. A failed fetch leaves the
// previous snapshot in place, so the client keeps whatever it had.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Refresh(r.Context()); err != nil {
		if errors.Is(err, syncer.ErrClosed) {
			http.Error(w, "service shutting down", http.StatusServiceUnavailable)
			return
		}
		httperrors.LogError(r, "refresh", err)
		h.writeJSON(w, r, http.StatusBadGateway, map[string]any{
			"error": "clinic backend unavailable, serving last known data",
		})
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"refreshed": true})
}

// Notifications lists recorded status changes, newest first.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	notes := h.store.Notifications.List()
	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"notifications": notes})
}
