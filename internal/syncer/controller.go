// Package syncer keeps the local appointment store consistent with the
// polled, non-push backend: fetch on mount, fetch on focus, optimistic
// cancel with reconciliation.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/confirm"
	"github.com/petfurme/petcal/internal/metrics"
	"github.com/petfurme/petcal/internal/session"
	"github.com/petfurme/petcal/internal/store"
)

// API is the slice of the backend client the controller needs.
type API interface {
	ListAppointments(ctx context.Context, userID int64) ([]appointment.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID int64, status appointment.Status) error
}

var (
	// ErrClosed is returned for operations after Close (screen unmount).
	ErrClosed = errors.New("sync controller closed")

	// ErrNotCancellable rejects a cancel the transition policy forbids.
	ErrNotCancellable = errors.New("appointment cannot be cancelled")
)

// Controller owns all I/O of the engine. Reads flow from the backend into
// the store for the projections; the only write path is the cancel flow.
type Controller struct {
	api      API
	store    *store.Store
	sessions session.Reader
	gateway  confirm.Gateway
	clock    Clock
	logger   *zap.Logger

	mu     sync.Mutex
	userID int64
	closed bool
}

// New wires a controller. The gateway decides how cancel confirmations are
// presented; it was capability-selected at startup.
func New(api API, st *store.Store, sessions session.Reader, gateway confirm.Gateway, clock Clock, logger *zap.Logger) *Controller {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:      api,
		store:    st,
		sessions: sessions,
		gateway:  gateway,
		clock:    clock,
		logger:   logger,
	}
}

// Start resolves the active user and performs the mount fetch. A missing
// identity fails fast with session.ErrNoSession wrapped; the caller redirects
// to login rather than showing a silent empty state.
func (c *Controller) Start(ctx context.Context) error {
	userID, err := c.sessions.UserID(ctx)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()

	return c.fetch(ctx, "mount")
}

// UserID returns the identity resolved by Start.
func (c *Controller) UserID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Refresh performs one fetch, used for both the focus trigger and the
// forced refresh after an external reschedule. Overlapping refreshes are not
// deduplicated; the later response wins.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx, "focus")
}

// Cancel runs the full cancel flow for one appointment: confirmation
// gateway, optimistic local patch, backend mutation, reconciling refetch.
// It reports whether the cancellation went through; a declined confirmation
// is (false, nil).
//
// The optimistic patch is reversible: when the backend rejects the mutation
// the exact inverse patch restores the prior status.
func (c *Controller) Cancel(ctx context.Context, appointmentID int64) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}
	c.mu.Unlock()

	appt, err := c.store.Appointments.Get(appointmentID)
	if err != nil {
		c.logger.Warn("cancel for unknown appointment", zap.Int64("appointment_id", appointmentID))
		return false, err
	}

	actions := appointment.ActionsFor(*appt, c.clock.Now())
	if !actions.CanCancel {
		return false, fmt.Errorf("%w: status %s", ErrNotCancellable, appt.Status)
	}

	confirmed, err := c.gateway.Confirm(ctx,
		"Cancel Appointment",
		fmt.Sprintf("Cancel the appointment for %s on %s?", appt.PetName, appt.Date.Format("01/02/2006")))
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	if !confirmed {
		metrics.CountCancel("declined")
		c.logger.Debug("cancel declined", zap.Int64("appointment_id", appointmentID))
		return false, nil
	}

	// Optimistic update for immediate feedback; server truth overwrites it
	// on the reconciling fetch.
	prior := appt.Status
	cancelled := appointment.StatusCancelled
	if err := c.store.Appointments.Patch(appointmentID, store.Patch{Status: &cancelled}); err != nil {
		return false, err
	}

	if err := c.api.UpdateStatus(ctx, appointmentID, appointment.StatusCancelled); err != nil {
		// Apply the exact inverse patch so the UI does not keep showing a
		// cancellation the server rejected.
		if rbErr := c.store.Appointments.Patch(appointmentID, store.Patch{Status: &prior}); rbErr != nil {
			c.logger.Error("rollback of optimistic cancel failed", zap.Int64("appointment_id", appointmentID), zap.Error(rbErr))
		}
		metrics.CountCancel("failed")
		return false, fmt.Errorf("cancel appointment %d: %w", appointmentID, err)
	}

	metrics.CountCancel("confirmed")

	// Reconcile against server truth. A failed reconcile keeps the
	// optimistic state; stale-but-present beats empty.
	if err := c.fetch(ctx, "reconcile"); err != nil {
		c.logger.Warn("reconcile fetch after cancel failed", zap.Error(err))
	}
	return true, nil
}

// Close marks the screen unmounted. In-flight fetch responses arriving after
// Close are discarded instead of mutating the store.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Controller) fetch(ctx context.Context, trigger string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	userID := c.userID
	c.mu.Unlock()

	fetchID := uuid.NewString()
	done := metrics.ObserveFetch(trigger)

	appts, err := c.api.ListAppointments(ctx, userID)
	if err != nil {
		done("failure")
		// Prior store contents stay; stale data beats empty data.
		c.logger.Error("fetch appointments failed",
			zap.String("fetch_id", fetchID),
			zap.String("trigger", trigger),
			zap.Error(err))
		return err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		done("discarded")
		c.logger.Debug("discarding fetch response after close", zap.String("fetch_id", fetchID))
		return ErrClosed
	}

	c.store.Appointments.ReplaceAll(appts)
	done("success")
	c.logger.Debug("fetch applied",
		zap.String("fetch_id", fetchID),
		zap.String("trigger", trigger),
		zap.Int("count", len(appts)))
	return nil
}
