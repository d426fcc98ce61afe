// calview is a terminal companion to the gateway: it pulls the signed-in
// user's appointments straight from the clinic backend and renders the month
// grid and day lists in the console. With -cancel it runs the interactive
// cancellation flow, asking for confirmation when stdin is a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/calendar"
	"github.com/petfurme/petcal/internal/confirm"
	"github.com/petfurme/petcal/internal/petapi"
	"github.com/petfurme/petcal/internal/session"
	"github.com/petfurme/petcal/internal/store"
	"github.com/petfurme/petcal/internal/syncer"
)

func main() {
	year := flag.Int("year", 0, "year to display (defaults to current)")
	month := flag.Int("month", 0, "month to display, 1-12 (defaults to current)")
	day := flag.String("day", "", "show the appointment list for one date (YYYY-MM-DD)")
	cancelID := flag.Int64("cancel", 0, "cancel the appointment with this id")
	flag.Parse()

	if err := run(*year, *month, *day, *cancelID); err != nil {
		fmt.Fprintln(os.Stderr, "calview:", err)
		os.Exit(1)
	}
}

func run(year, month int, day string, cancelID int64) error {
	_ = godotenv.Load()

	baseURL := os.Getenv("APP_BACKEND_URL")
	if baseURL == "" {
		return errors.New("APP_BACKEND_URL is required")
	}

	var reader session.Reader
	if raw := os.Getenv("APP_USER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("APP_USER_ID must be a positive integer (got %q)", raw)
		}
		reader = session.Static(id)
	} else {
		path := os.Getenv("APP_SESSION_FILE")
		if path == "" {
			path = "session.json"
		}
		reader = session.FileReader{Path: path}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := zap.NewNop()
	backend := petapi.NewClient(baseURL, 15*time.Second, logger)
	st := store.New(logger)
	gateway := confirm.Detect(os.Stdin, os.Stdout)

	controller := syncer.New(backend, st, reader, gateway, nil, logger)
	if err := controller.Start(ctx); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return errors.New("no signed-in user: set APP_USER_ID or provide a session file")
		}
		return err
	}
	defer controller.Close()

	if cancelID != 0 {
		return runCancel(ctx, controller, st, cancelID)
	}
	if day != "" {
		selected, err := calendar.ParseDate(day)
		if err != nil {
			return fmt.Errorf("invalid -day value: %w", err)
		}
		printDay(st, selected)
		return nil
	}

	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range", month)
	}

	printMonth(st, year, time.Month(month), now)
	printDigest(st, now)
	return nil
}

func runCancel(ctx context.Context, controller *syncer.Controller, st *store.Store, id int64) error {
	cancelled, err := controller.Cancel(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("no appointment with id %d", id)
	case errors.Is(err, syncer.ErrNotCancellable):
		return fmt.Errorf("appointment %d can no longer be cancelled", id)
	case err != nil:
		return err
	}
	if cancelled {
		fmt.Printf("appointment %d cancelled\n", id)
	} else {
		fmt.Printf("appointment %d left unchanged\n", id)
	}
	return nil
}

// indicatorMarks render each cell's state as a one-character suffix.
var indicatorMarks = map[calendar.Indicator]string{
	calendar.IndicatorCancelled: "x",
	calendar.IndicatorDone:      ".",
	calendar.IndicatorToday:     "*",
	calendar.IndicatorDefault:   "+",
}

func printMonth(st *store.Store, year int, month time.Month, now time.Time) {
	cells := calendar.Project(st.Appointments.List(), year, month, time.Time{}, now)

	fmt.Printf("%s %d\n", month, year)
	fmt.Println("Su  Mo  Tu  We  Th  Fr  Sa")
	for i, c := range cells {
		if c.Day == 0 {
			fmt.Print("    ")
		} else {
			fmt.Printf("%2d%-2s", c.Day, indicatorMarks[c.Indicator])
		}
		if (i+1)%7 == 0 {
			fmt.Println()
		}
	}
	if len(cells)%7 != 0 {
		fmt.Println()
	}
	fmt.Println("legend: + upcoming  * today  . done  x cancelled")
}

func printDay(st *store.Store, selected time.Time) {
	appts := calendar.Filter(st.Appointments.List(), calendar.ViewModeDay, selected)
	if len(appts) == 0 {
		fmt.Printf("no appointments on %s\n", selected.Format("01/02/2006"))
		return
	}
	now := time.Now()
	for _, a := range appts {
		printAppointment(a, now)
	}
}

func printDigest(st *store.Store, now time.Time) {
	d := calendar.Upcoming(st.Appointments.List(), now)
	if d.Next == nil {
		fmt.Println("no upcoming appointments")
		return
	}
	fmt.Printf("%d upcoming, next:\n", d.Count)
	printAppointment(*d.Next, now)
}

func printAppointment(a appointment.Appointment, now time.Time) {
	display := appointment.DisplayFor(a.Status)
	actions := appointment.ActionsFor(a, now)

	fmt.Printf("  #%d %s  %s %s  [%s]", a.ID, a.PetName, a.Date.Format("01/02/2006"), a.TimeOfDay, display.Label)
	if len(a.Reasons) > 0 {
		fmt.Print("  ")
		for i, reason := range a.Reasons {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(reason)
		}
	}
	if actions.CanCancel {
		fmt.Print("  (cancellable)")
	}
	fmt.Println()
}
