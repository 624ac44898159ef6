package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"strings"  // input trimming
	"time"     // schedule parsing and status derivation

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talk-checkin/internal/model"
	"github.com/iliyamo/talk-checkin/internal/repository"
)

// SessionHandler exposes session creation, listing and the gate
// toggle used by the organizer's start/pause buttons.
type SessionHandler struct {
	Sessions *repository.SessionRepo
}

// NewSessionHandler constructs a SessionHandler with the provided
// repository.  The dependency must be non-nil.
func NewSessionHandler(sessions *repository.SessionRepo) *SessionHandler {
	if sessions == nil {
		panic("nil repository passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions}
}

// sessionView is a session plus its derived display status.  The
// status is computed against the clock at read time and never stored.
type sessionView struct {
	model.Session
	Status string `json:"status"`
}

// Create handles POST /sessions.  The body must contain a title,
// description and RFC3339 start/end timestamps with the end after the
// start.  New sessions always begin with the gate disabled.
func (h *SessionHandler) Create(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StartsAt    string `json:"starts_at"`
		EndsAt      string `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	start, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}

	s := &model.Session{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		StartsAt:    start.UTC(),
		EndsAt:      end.UTC(),
	}
	if err := h.Sessions.Create(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": s})
}

// List handles GET /sessions.  Each session is annotated with its
// derived status computed against the current clock.
func (h *SessionHandler) List(c echo.Context) error {
	sessions, err := h.Sessions.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	now := time.Now().UTC()
	items := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionView{Session: s, Status: s.Status(now)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ToggleCheckin handles PATCH /sessions/:id/toggle-checkin.  The body
// carries the desired gate value; flipping to the current value is a
// harmless no-op.  It returns 200 with the updated session or 404
// when the session is unknown.
func (h *SessionHandler) ToggleCheckin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := h.Sessions.SetGate(c.Request().Context(), id, body.Enabled)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle checkin"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session": sessionView{Session: *s, Status: s.Status(time.Now().UTC())},
	})
}
