package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talk-checkin/internal/bridge"
)

// BridgeHandler exposes the card reader connection state for health
// reporting.  The snapshot comes straight from the bridge's own state
// machine; nothing here touches the device.
type BridgeHandler struct {
	Bridge *bridge.Bridge
}

// NewBridgeHandler constructs a BridgeHandler.  The bridge must be non-nil.
func NewBridgeHandler(b *bridge.Bridge) *BridgeHandler {
	if b == nil {
		panic("nil bridge passed to NewBridgeHandler")
	}
	return &BridgeHandler{Bridge: b}
}

// Status handles GET /bridge/status.
func (h *BridgeHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Bridge.Status())
}
