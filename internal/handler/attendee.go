package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // input trimming
	"time"     // issuance date parsing

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talk-checkin/internal/repository" // repository layer
)

// AttendeeHandler exposes attendee registration.  Attendees are
// immutable once created in this scope, so there are no update or
// delete endpoints.
type AttendeeHandler struct {
	Attendees *repository.AttendeeRepo
}

// NewAttendeeHandler constructs an AttendeeHandler with the provided
// repository.  The dependency must be non-nil.
func NewAttendeeHandler(attendees *repository.AttendeeRepo) *AttendeeHandler {
	if attendees == nil {
		panic("nil repository passed to NewAttendeeHandler")
	}
	return &AttendeeHandler{Attendees: attendees}
}

// Register handles POST /attendees.  The body must contain the
// institutional registration number, a display name and a program
// label.  The card identifier and issuance date are optional: a fresh
// UUID and today's date are used when absent.  It returns 201 with
// the attendee and its card, or 400 on validation failures and on
// duplicate registration numbers or card identifiers.
func (h *AttendeeHandler) Register(c echo.Context) error {
	var body struct {
		RA       uint64 `json:"ra"`
		Name     string `json:"name"`
		Program  string `json:"program"`
		CardUID  string `json:"card_uid"`
		IssuedAt string `json:"issued_at"` // YYYY-MM-DD
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RA == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ra is required"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	issuedAt := time.Now().UTC()
	if body.IssuedAt != "" {
		t, err := time.Parse("2006-01-02", body.IssuedAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "issued_at must be YYYY-MM-DD"})
		}
		issuedAt = t
	}

	ctx := c.Request().Context()
	att, card, err := h.Attendees.Register(ctx, body.RA, body.Name, body.Program, strings.TrimSpace(body.CardUID), issuedAt)
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration number already exists"})
		}
		if errors.Is(err, repository.ErrCardExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "card already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register attendee"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"attendee": att,
		"card":     card,
	})
}
