package ui

import (
	"net/http"
	"strconv"
	"time"

	"github.com/petfurme/petcal/internal/calendar"
	httperrors "github.com/petfurme/petcal/internal/http/errors"
)

// Calendar projects the month grid.
//
//	GET /api/calendar?year=2024&month=6&selected=2024-06-15
//
// year and month default to the current month; selected is optional.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	year := now.Year()
	month := now.Month()
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1970 || v > 9999 {
			httperrors.BadRequestError(w, r, err, "invalid year")
			return
		}
		year = v
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			httperrors.BadRequestError(w, r, err, "invalid month")
			return
		}
		month = time.Month(v)
	}

	var selected time.Time
	if raw := r.URL.Query().Get("selected"); raw != "" {
		var err error
		selected, err = calendar.ParseDate(raw)
		if err != nil {
			httperrors.BadRequestError(w, r, err, "invalid selected date")
			return
		}
	}

	cells := calendar.Project(h.store.Appointments.List(), year, month, selected, now)
	views := make([]cellView, len(cells))
	for i, c := range cells {
		views[i] = cellView{DayCell: c, Color: c.Indicator.Color()}
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"year":  year,
		"month": int(month),
		"cells": views,
	})
}

// cellView decorates a grid cell with its resolved indicator color so the
// client does not carry the palette.
type cellView struct {
	calendar.DayCell
	Color string `json:"color,omitempty"`
}
