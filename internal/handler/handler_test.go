package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talk-checkin/internal/repository"
)

// Validation failures are rejected before any repository call, so
// most tests here run against repos with no database behind them;
// the ones that reach storage use sqlmock.

func request(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	c, rec := request(t, http.MethodGet, "/healthz", "")
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	h := NewAttendeeHandler(repository.NewAttendeeRepo(nil))

	c, rec := request(t, http.MethodPost, "/attendees", `{"name":"Ana","program":"DSM"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ra is required")

	c, rec = request(t, http.MethodPost, "/attendees", `{"ra":1001,"program":"DSM"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")

	c, rec = request(t, http.MethodPost, "/attendees", `{"ra":1001,"name":"Ana","issued_at":"30/08/2026"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "issued_at")
}

func TestCreateSessionValidation(t *testing.T) {
	h := NewSessionHandler(repository.NewSessionRepo(nil))

	c, rec := request(t, http.MethodPost, "/sessions", `{"description":"x","starts_at":"2026-08-30T14:00:00Z","ends_at":"2026-08-30T15:00:00Z"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")

	c, rec = request(t, http.MethodPost, "/sessions", `{"title":"Intro","starts_at":"tomorrow","ends_at":"2026-08-30T15:00:00Z"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "starts_at")

	c, rec = request(t, http.MethodPost, "/sessions", `{"title":"Intro","starts_at":"2026-08-30T15:00:00Z","ends_at":"2026-08-30T14:00:00Z"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ends_at must be after starts_at")
}

func TestToggleCheckinRejectsBadID(t *testing.T) {
	h := NewSessionHandler(repository.NewSessionRepo(nil))

	c, rec := request(t, http.MethodPatch, "/sessions/abc/toggle-checkin", `{"enabled":true}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.ToggleCheckin(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManualCheckinValidation(t *testing.T) {
	h := NewCheckinHandler(repository.NewCheckinRepo(nil), repository.NewAttendeeRepo(nil), repository.NewSessionRepo(nil))

	c, rec := request(t, http.MethodPost, "/checkin", `{"attendee_ra":1001}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "attendee_ra and session_id are required")
}

func TestIssueCertificatesReportsTotal(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	h := NewCertificateHandler(repository.NewCertificateRepo(db), repository.NewSessionRepo(db), nil)

	starts := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM sessions").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "starts_at", "ends_at", "checkin_enabled", "created_at"}).
			AddRow(7, "Intro to Go", "", starts, starts.Add(time.Hour), false, starts.Add(-time.Hour)))
	// Everyone already certificated: this run issues nothing but the
	// body still carries the running total for the session.
	mock.ExpectQuery("LEFT JOIN certificates").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "attendee_ra", "session_id", "checked_in_at"}))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	c, rec := request(t, http.MethodPost, "/sessions/7/certificates", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Issue(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"issued":0`)
	assert.Contains(t, rec.Body.String(), `"total":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueCertificatesRejectsBadID(t *testing.T) {
	h := NewCertificateHandler(repository.NewCertificateRepo(nil), repository.NewSessionRepo(nil), nil)

	c, rec := request(t, http.MethodPost, "/sessions/0/certificates", "")
	c.SetParamNames("id")
	c.SetParamValues("0")
	require.NoError(t, h.Issue(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
