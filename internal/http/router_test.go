package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/appointment"
	"github.com/petfurme/petcal/internal/config"
	"github.com/petfurme/petcal/internal/store"
)

type fakeSyncer struct {
	refreshErr error
}

func (f *fakeSyncer) Refresh(context.Context) error { return f.refreshErr }

func (f *fakeSyncer) Cancel(context.Context, int64) (bool, error) { return true, nil }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Session.Secret = strings.Repeat("s", 32)
	cfg.LoginURL = "/login"
	cfg.MetricsEnabled = true
	return cfg
}

func newTestRouter(t *testing.T, ping error) http.Handler {
	t.Helper()
	st := store.New(zap.NewNop())
	st.Appointments.ReplaceAll([]appointment.Appointment{
		{ID: 1, UserID: 42, PetName: "Brownie", Status: appointment.StatusPending,
			Date: time.Date(2030, time.January, 15, 0, 0, 0, 0, time.Local), TimeOfDay: "10:00"},
	})
	return NewRouter(testConfig(), st, &fakeSyncer{}, fakePinger{err: ping}, zap.NewNop())
}

func TestRouterRoutes(t *testing.T) {
	testCases := []struct {
		name           string
		method         string
		path           string
		body           string
		wantStatusCode int
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantStatusCode: http.StatusOK},
		{name: "readyz", method: http.MethodGet, path: "/readyz", wantStatusCode: http.StatusOK},
		{name: "metrics exposed", method: http.MethodGet, path: "/metrics", wantStatusCode: http.StatusOK},
		{name: "api requires identity", method: http.MethodGet, path: "/api/appointments", wantStatusCode: http.StatusUnauthorized},
		{name: "api with user_id param", method: http.MethodGet, path: "/api/appointments?user_id=42", wantStatusCode: http.StatusOK},
		{name: "calendar with user_id param", method: http.MethodGet, path: "/api/calendar?user_id=42&year=2030&month=1", wantStatusCode: http.StatusOK},
		{name: "next with user_id param", method: http.MethodGet, path: "/api/appointments/next?user_id=42", wantStatusCode: http.StatusOK},
		{name: "cancel routed", method: http.MethodPost, path: "/api/appointments/1/cancel?user_id=42", body: `{"confirmed":true}`, wantStatusCode: http.StatusOK},
		{name: "refresh routed", method: http.MethodPost, path: "/api/sync/refresh?user_id=42", wantStatusCode: http.StatusOK},
		{name: "session issue", method: http.MethodPost, path: "/auth/session", body: `{"user_id":42}`, wantStatusCode: http.StatusNoContent},
		{name: "session issue rejects zero id", method: http.MethodPost, path: "/auth/session", body: `{"user_id":0}`, wantStatusCode: http.StatusBadRequest},
		{name: "logout", method: http.MethodPost, path: "/auth/logout", wantStatusCode: http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, nil)

			var body *strings.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatusCode {
				t.Fatalf("%s %s = %d, want %d (body %s)", tc.method, tc.path, rec.Code, tc.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestReadyzUnreadyBackend(t *testing.T) {
	router := newTestRouter(t, context.DeadlineExceeded)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestSessionCookieGrantsAPIAccess(t *testing.T) {
	router := newTestRouter(t, nil)

	issue := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"user_id":42}`))
	issueRec := httptest.NewRecorder()
	router.ServeHTTP(issueRec, issue)
	if issueRec.Code != http.StatusNoContent {
		t.Fatalf("issue session = %d, want %d", issueRec.Code, http.StatusNoContent)
	}
	cookies := issueRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Accept", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status with cookie = %d, want %d", rec.Code, http.StatusOK)
	}
}
