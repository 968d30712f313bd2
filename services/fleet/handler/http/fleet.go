package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/middleware"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/websocket"
	"github.com/piresc/unitransport/internal/utils"
	"github.com/piresc/unitransport/services/fleet"
)

// FleetHandler serves the fleet view over HTTP and WebSocket
type FleetHandler struct {
	fleetUC fleet.FleetUC
	hub     *websocket.Manager
}

// NewFleetHandler creates a new fleet HTTP handler
func NewFleetHandler(fleetUC fleet.FleetUC, hub *websocket.Manager) *FleetHandler {
	return &FleetHandler{
		fleetUC: fleetUC,
		hub:     hub,
	}
}

// RegisterRoutes registers the fleet handler routes
func (h *FleetHandler) RegisterRoutes(e *echo.Echo) {
	fleetGroup := e.Group("/fleet")
	fleetGroup.GET("/view", h.GetView)
	fleetGroup.GET("/filter", h.GetFilter)
	fleetGroup.PUT("/filter", h.UpdateFilter)
	fleetGroup.GET("/ws", h.Connect)
}

// GetView returns the current render instruction
func (h *FleetHandler) GetView(c echo.Context) error {
	defer middleware.StartSegment(c, "fleet.view").End()

	instr, err := h.fleetUC.View(c.Request().Context())
	if err != nil {
		logger.Error("Failed to compute fleet view", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to compute fleet view")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fleet view", instr)
}

// GetFilter returns the active view filter
func (h *FleetHandler) GetFilter(c echo.Context) error {
	filter, err := h.fleetUC.Filter(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read fleet filter", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to read filter")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fleet filter", filter)
}

// UpdateFilter replaces both filters. A null, empty or zero value clears that filter.
func (h *FleetHandler) UpdateFilter(c echo.Context) error {
	var req models.FilterRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	var filter models.ViewFilter
	if req.Direction != nil && *req.Direction != "" {
		d, err := models.ParseDirection(*req.Direction)
		if err != nil {
			return utils.BadRequestResponse(c, err.Error())
		}
		filter.Direction = &d
	}
	if req.Route != nil && *req.Route != 0 {
		if *req.Route < 0 {
			return utils.BadRequestResponse(c, "Route must be a positive number")
		}
		r := *req.Route
		filter.Route = &r
	}

	instr, err := h.fleetUC.SetFilter(c.Request().Context(), filter)
	if err != nil {
		logger.Error("Failed to apply fleet filter", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to apply filter")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Filter updated", instr)
}

// Connect upgrades to a WebSocket that receives a fleet_snapshot followed by
// every fleet_update
func (h *FleetHandler) Connect(c echo.Context) error {
	ctx := c.Request().Context()
	return h.hub.HandleConnection(c, func() (string, interface{}) {
		instr, err := h.fleetUC.View(ctx)
		if err != nil {
			logger.Warn("Failed to build fleet snapshot", logger.Err(err))
			return constants.EventError, models.WSErrorMessage{
				Code:    constants.ErrorInternalError,
				Message: "fleet view unavailable",
			}
		}
		return constants.EventFleetSnapshot, instr
	})
}
