// Package calendar derives renderable month grids and filtered appointment
// lists from the store's working set. Everything here is pure: the clock is
// an input, never read from the system.
package calendar

import (
	"time"

	"github.com/petfurme/petcal/internal/appointment"
)

// Indicator is the glyph/color class a day cell renders with.
type Indicator string

const (
	IndicatorNone      Indicator = ""
	IndicatorCancelled Indicator = "cancelled"
	IndicatorDone      Indicator = "done"
	IndicatorToday     Indicator = "today"
	IndicatorDefault   Indicator = "default"
)

// indicatorColors mirrors the mobile screen's palette: red for cancelled,
// muted for past, green for today, purple for the plain has-appointment dot.
var indicatorColors = map[Indicator]string{
	IndicatorCancelled: "#FF4444",
	IndicatorDone:      "#A9A9A9",
	IndicatorToday:     "#4CAF50",
	IndicatorDefault:   "#8146C1",
}

// Color returns the render color for the indicator, empty for none.
func (i Indicator) Color() string {
	return indicatorColors[i]
}

// DayCell is one ephemeral cell of the month grid. Leading filler cells have
// Day 0 and a zero Date.
type DayCell struct {
	Day            int                `json:"day"`
	Date           time.Time          `json:"date,omitzero"`
	HasAppointment bool               `json:"has_appointment"`
	Status         appointment.Status `json:"status,omitempty"`
	Past           bool               `json:"past"`
	Today          bool               `json:"today"`
	Selected       bool               `json:"selected"`
	Indicator      Indicator          `json:"indicator,omitempty"`
}

// Project derives the grid for one displayed month: filler cells up to the
// month's first weekday, then one cell per day, each annotated against the
// appointment list, the selected date and the injected today.
//
// Day matching is first-match in list order, so with several appointments on
// one day the earliest record in server order drives the cell.
func Project(appts []appointment.Appointment, year int, month time.Month, selected, today time.Time) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	cells := make([]DayCell, 0, lead+daysInMonth)
	for i := 0; i < lead; i++ {
		cells = append(cells, DayCell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		cell := DayCell{
			Day:      day,
			Date:     date,
			Past:     appointment.DateOnly(date).Before(appointment.DateOnly(today)),
			Today:    appointment.SameDay(date, today),
			Selected: appointment.SameDay(date, selected),
		}

		for _, a := range appts {
			if appointment.SameDay(a.Date, date) {
				cell.HasAppointment = true
				cell.Status = a.Status
				break
			}
		}

		cell.Indicator = indicatorFor(cell)
		cells = append(cells, cell)
	}

	return cells
}

// indicatorFor picks the cell indicator in fixed precedence order:
// cancelled beats past beats today beats the default dot.
func indicatorFor(c DayCell) Indicator {
	if !c.HasAppointment {
		return IndicatorNone
	}
	switch {
	case c.Status == appointment.StatusCancelled:
		return IndicatorCancelled
	case c.Past:
		return IndicatorDone
	case c.Today:
		return IndicatorToday
	default:
		return IndicatorDefault
	}
}
