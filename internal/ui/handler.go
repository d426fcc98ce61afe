// Package ui is the JSON presentation surface: it serves the engine's four
// derived structures (store snapshot, calendar grid, filtered lists, action
// flags) to the mobile client and accepts its cancel/refresh actions.
package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	httperrors "github.com/petfurme/petcal/internal/http/errors"
	"github.com/petfurme/petcal/internal/store"
	"github.com/petfurme/petcal/internal/syncer"
)

// Syncer is the slice of the sync controller the handlers need.
type Syncer interface {
	Refresh(ctx context.Context) error
	Cancel(ctx context.Context, appointmentID int64) (bool, error)
}

// Handler serves the presentation API.
type Handler struct {
	store *store.Store
	sync  Syncer
	clock syncer.Clock
}

func NewHandler(st *store.Store, sync Syncer, clock syncer.Clock) *Handler {
	if clock == nil {
		clock = syncer.SystemClock()
	}
	return &Handler{store: st, sync: sync, clock: clock}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperrors.LogError(r, "encode response", err)
	}
}

// formatDisplayDate renders a calendar date the way the appointment cards do.
func formatDisplayDate(t time.Time) string {
	return t.Format("01/02/2006")
}

// formatDisplayTime renders an "HH:MM" slot as a 12-hour time. Unparseable
// slots pass through untouched.
func formatDisplayTime(slot string) string {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return slot
	}
	return t.Format("3:04 PM")
}
