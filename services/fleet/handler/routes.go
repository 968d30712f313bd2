package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/piresc/unitransport/internal/pkg/transport"
	"github.com/piresc/unitransport/internal/pkg/websocket"
	"github.com/piresc/unitransport/services/fleet"
	httpHandler "github.com/piresc/unitransport/services/fleet/handler/http"
	transportHandler "github.com/piresc/unitransport/services/fleet/handler/transport"
)

// Handler combines all handlers for the fleet service
type Handler struct {
	fleetHTTP      *httpHandler.FleetHandler
	fleetTransport *transportHandler.FleetConsumer
}

// NewHandler creates a new combined handler
func NewHandler(
	fleetUC fleet.FleetUC,
	hub *websocket.Manager,
	client transport.Client,
) *Handler {
	return &Handler{
		fleetHTTP:      httpHandler.NewFleetHandler(fleetUC, hub),
		fleetTransport: transportHandler.NewFleetConsumer(fleetUC, client),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	h.fleetHTTP.RegisterRoutes(e)
}

// InitTransportConsumer subscribes the fleet loop to the shared topic
func (h *Handler) InitTransportConsumer(ctx context.Context) {
	h.fleetTransport.InitConsumer(ctx)
}
