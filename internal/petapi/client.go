// Package petapi is the engine's only doorway to the backend. It speaks the
// backend's loose wire shapes and converts them into strict appointment
// values before anything downstream sees them.
package petapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
)

// ErrBackend marks a response the backend itself flagged as unsuccessful, as
// opposed to a transport-level failure.
var ErrBackend = errors.New("backend rejected request")

// Client calls the appointment endpoints of the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ListAppointments fetches the user's appointment list. Records that fail
// validation are dropped with a logged anomaly rather than failing the whole
// fetch; a payload that is not a JSON array fails outright.
func (c *Client) ListAppointments(ctx context.Context, userID int64) ([]appointment.Appointment, error) {
	u := fmt.Sprintf("%s/appointments?user_id=%s", c.baseURL, url.QueryEscape(strconv.FormatInt(userID, 10)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch appointments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch appointments: %w: status %d: %s", ErrBackend, resp.StatusCode, body)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("fetch appointments: decode payload: %w", err)
	}

	appts := make([]appointment.Appointment, 0, len(raw))
	for i, msg := range raw {
		a, err := decodeAppointment(msg)
		if err != nil {
			c.logger.Warn("dropping malformed appointment record",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		appts = append(appts, a)
	}
	return appts, nil
}

// Ping checks backend reachability for readiness probes. Any HTTP response
// counts as reachable; only transport failures report unready.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/appointments", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	resp.Body.Close()
	return nil
}

type updateStatusRequest struct {
	AppointmentID int64              `json:"appointment_id"`
	Status        appointment.Status `json:"status"`
}

type updateStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateStatus posts a status mutation. On success the caller is expected to
// re-fetch the full list; the response body carries no record to trust.
func (c *Client) UpdateStatus(ctx context.Context, appointmentID int64, status appointment.Status) error {
	payload, err := json.Marshal(updateStatusRequest{AppointmentID: appointmentID, Status: status})
	if err != nil {
		return err
	}

	u := c.baseURL + "/appointments/update-status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	defer resp.Body.Close()

	var out updateStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("update status: decode response: %w", err)
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("update status: %w: %s", ErrBackend, msg)
	}
	return nil
}
