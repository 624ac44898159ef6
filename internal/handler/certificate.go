package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talk-checkin/internal/repository"
)

// CertificateHandler exposes batch certificate issuance for a
// session.  The artifact itself comes from the Renderer collaborator;
// this service only stores it.
type CertificateHandler struct {
	Certificates *repository.CertificateRepo
	Sessions     *repository.SessionRepo
	Renderer     repository.Renderer
}

// NewCertificateHandler constructs a CertificateHandler.  A nil
// renderer falls back to the placeholder implementation.
func NewCertificateHandler(certificates *repository.CertificateRepo, sessions *repository.SessionRepo, renderer repository.Renderer) *CertificateHandler {
	if certificates == nil || sessions == nil {
		panic("nil repository passed to NewCertificateHandler")
	}
	if renderer == nil {
		renderer = repository.PlaceholderRenderer{}
	}
	return &CertificateHandler{Certificates: certificates, Sessions: sessions, Renderer: renderer}
}

// Issue handles POST /sessions/:id/certificates.  It certificates
// every check-in of the session that lacks one, atomically: on any
// failure no certificate is committed and a 500 is returned.  Running
// it again with no new check-ins issues zero.  The response reports
// both the freshly issued count and the session total.
func (h *CertificateHandler) Issue(c echo.Context) error {
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
	issued, err := h.Certificates.IssueForSession(ctx, id, h.Renderer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue certificates"})
	}
	total, err := h.Certificates.CountForSession(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"issued": issued, "total": total})
}
