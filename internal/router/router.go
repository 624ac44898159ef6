package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/talk-checkin/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers the health check endpoint on the provided
// Echo instance.  Load balancers and monitoring systems use it to
// verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires every application endpoint.  The route paths are
// a fixed contract with the organizer UI and the kiosk scripts, so
// they live in one place:
//
//	POST  /attendees                         register attendee + card
//	POST  /sessions                          create a session (gate off)
//	GET   /sessions                          list with derived status
//	PATCH /sessions/:id/toggle-checkin       start/pause check-ins
//	POST  /checkin                           manual check-in
//	GET   /sessions/:id/present              who checked in
//	POST  /sessions/:id/certificates         batch-issue certificates
//	GET   /bridge/status                     device channel health
func RegisterAPI(e *echo.Echo, a *handler.AttendeeHandler, s *handler.SessionHandler, ck *handler.CheckinHandler, cert *handler.CertificateHandler, b *handler.BridgeHandler) {
	e.POST("/attendees", a.Register)

	e.POST("/sessions", s.Create)
	e.GET("/sessions", s.List)
	e.PATCH("/sessions/:id/toggle-checkin", s.ToggleCheckin)

	e.POST("/checkin", ck.Create)
	e.GET("/sessions/:id/present", ck.ListPresent)

	e.POST("/sessions/:id/certificates", cert.Issue)

	e.GET("/bridge/status", b.Status)
}
