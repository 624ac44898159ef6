package handler

import (
	"context"  // detached context for the event publish
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talk-checkin/internal/queue"
	"github.com/iliyamo/talk-checkin/internal/repository"
	queue_publisher "github.com/iliyamo/talk-checkin/internal/service"
)

// CheckinHandler exposes the manual check-in endpoint and the
// present list.  Manual check-ins share the same ledger write as the
// card-scan bridge, so the storage-level unique key is what decides
// races between the two.
type CheckinHandler struct {
	Checkins  *repository.CheckinRepo
	Attendees *repository.AttendeeRepo
	Sessions  *repository.SessionRepo
}

// NewCheckinHandler constructs a CheckinHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCheckinHandler(checkins *repository.CheckinRepo, attendees *repository.AttendeeRepo, sessions *repository.SessionRepo) *CheckinHandler {
	if checkins == nil || attendees == nil || sessions == nil {
		panic("nil repository passed to NewCheckinHandler")
	}
	return &CheckinHandler{Checkins: checkins, Attendees: attendees, Sessions: sessions}
}

// Create handles POST /checkin.  The session must exist and its gate
// must be enabled at call time.  Responses: 201 with the record, 404
// unknown session, 403 gate closed, 409 duplicate check-in.
func (h *CheckinHandler) Create(c echo.Context) error {
	var body struct {
		AttendeeRA uint64 `json:"attendee_ra"`
		SessionID  uint64 `json:"session_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.AttendeeRA == 0 || body.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendee_ra and session_id are required"})
	}

	ctx := c.Request().Context()
	rec, err := h.Checkins.Create(ctx, body.AttendeeRA, body.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, repository.ErrCheckinClosed):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "checkin is not active for this session"})
		case errors.Is(err, repository.ErrDuplicateCheckin):
			return c.JSON(http.StatusConflict, echo.Map{"error": "attendee already checked in for this session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create checkin"})
	}

	// Best-effort fan-out; publishing must never fail the check-in.
	ev := queue.CheckinConfirmedEvent{
		AttendeeRA:  rec.AttendeeRA,
		SessionID:   rec.SessionID,
		Source:      "manual",
		CheckedInAt: rec.CheckedInAt.UTC().Format(time.RFC3339),
	}
	if att, err := h.Attendees.GetByRA(ctx, rec.AttendeeRA); err == nil {
		ev.AttendeeName = att.Name
	}
	if s, err := h.Sessions.GetByID(ctx, rec.SessionID); err == nil {
		ev.SessionTitle = s.Title
	}
	go func() { _ = queue_publisher.PublishCheckinConfirmed(context.Background(), ev) }()

	return c.JSON(http.StatusCreated, echo.Map{"checkin": rec})
}

// ListPresent handles GET /sessions/:id/present.  It returns every
// attendee who checked in to the session, earliest first, or 404 when
// the session is unknown.
func (h *CheckinHandler) ListPresent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Sessions.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Checkins.ListPresent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load present list"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
