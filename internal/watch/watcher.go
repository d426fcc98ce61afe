// Package watch polls the backend for appointment status changes the user
// has not seen yet, standing in for push delivery the backend does not
// offer.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/metrics"
	"github.com/petfurme/petcal/internal/store"
)

// Refresher triggers one reconciling fetch; satisfied by the sync controller.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Watcher diffs appointment statuses across polls and records a notification
// for every observed transition.
type Watcher struct {
	refresher Refresher
	store     *store.Store
	logger    *zap.Logger
	interval  time.Duration

	cron *cron.Cron
	prev map[int64]appointment.Status
}

// New builds a watcher polling at the given interval.
func New(refresher Refresher, st *store.Store, interval time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		refresher: refresher,
		store:     st,
		logger:    logger,
		interval:  interval,
		prev:      make(map[int64]appointment.Status),
	}
}

// Start primes the baseline from the current store contents and begins
// polling. Statuses already present at start are not notified.
func (w *Watcher) Start(ctx context.Context) error {
	w.prime()

	w.cron = cron.New()
	_, err := w.cron.AddFunc(fmt.Sprintf("@every %s", w.interval), func() {
		w.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule watcher: %w", err)
	}
	w.cron.Start()
	w.logger.Info("status watcher started", zap.Duration("interval", w.interval))
	return nil
}

// Stop halts polling; a poll already in flight finishes.
func (w *Watcher) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce performs a single poll cycle: refresh, diff, record.
func (w *Watcher) RunOnce(ctx context.Context) {
	metrics.CountWatchTick()

	if err := w.refresher.Refresh(ctx); err != nil {
		// The store keeps its previous contents; diffing now would only
		// compare the baseline with itself.
		w.logger.Warn("watcher refresh failed", zap.Error(err))
		return
	}

	changes := 0
	current := make(map[int64]appointment.Status)
	for _, a := range w.store.Appointments.List() {
		current[a.ID] = a.Status

		before, seen := w.prev[a.ID]
		if !seen || before == a.Status {
			continue
		}

		w.store.Notifications.Append(store.Notification{
			ID:            uuid.NewString(),
			AppointmentID: a.ID,
			PetName:       a.PetName,
			From:          before,
			To:            a.Status,
			OccurredAt:    time.Now(),
		})
		changes++
		w.logger.Info("appointment status changed",
			zap.Int64("appointment_id", a.ID),
			zap.String("from", string(before)),
			zap.String("to", string(a.Status)))
	}

	w.prev = current
	if changes > 0 {
		metrics.CountStatusChanges(changes)
	}
}

func (w *Watcher) prime() {
	w.prev = make(map[int64]appointment.Status)
	for _, a := range w.store.Appointments.List() {
		w.prev[a.ID] = a.Status
	}
}
