package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/middleware"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/utils"
	"github.com/piresc/unitransport/services/driver"
)

// DriverHandler exposes the publisher session controls
type DriverHandler struct {
	driverUC driver.DriverUC
}

// NewDriverHandler creates a new driver HTTP handler
func NewDriverHandler(driverUC driver.DriverUC) *DriverHandler {
	return &DriverHandler{
		driverUC: driverUC,
	}
}

// RegisterRoutes registers the driver handler routes
func (h *DriverHandler) RegisterRoutes(e *echo.Echo) {
	driverGroup := e.Group("/driver")
	driverGroup.GET("/status", h.GetStatus)
	driverGroup.PUT("/route", h.SetRoute)
	driverGroup.PUT("/direction", h.SetDirection)
	driverGroup.POST("/start", h.StartDriving)
	driverGroup.POST("/stop", h.StopDriving)
}

// GetStatus returns the session snapshot
func (h *DriverHandler) GetStatus(c echo.Context) error {
	status := h.driverUC.Status(c.Request().Context())
	middleware.SetPublisherID(c, status.PublisherID)
	return utils.SuccessResponse(c, http.StatusOK, "Driver status", status)
}

// SetRoute selects the route number
func (h *DriverHandler) SetRoute(c echo.Context) error {
	var req models.RouteRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	ctx := c.Request().Context()
	if err := h.driverUC.SetRoute(ctx, req.Route); err != nil {
		return h.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Route selected", h.driverUC.Status(ctx))
}

// SetDirection selects the travel direction
func (h *DriverHandler) SetDirection(c echo.Context) error {
	var req models.DirectionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	ctx := c.Request().Context()
	if err := h.driverUC.SetDirection(ctx, req.Direction); err != nil {
		return h.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Direction selected", h.driverUC.Status(ctx))
}

// StartDriving begins broadcasting
func (h *DriverHandler) StartDriving(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.driverUC.StartDriving(ctx); err != nil {
		return h.errorResponse(c, err)
	}

	status := h.driverUC.Status(ctx)
	middleware.SetPublisherID(c, status.PublisherID)
	middleware.AddAttribute(c, "route", status.Route)
	middleware.AddAttribute(c, "generator", string(status.Generator))
	return utils.SuccessResponse(c, http.StatusOK, "Driving started", status)
}

// StopDriving ends broadcasting. Stopping an idle session succeeds.
func (h *DriverHandler) StopDriving(c echo.Context) error {
	ctx := c.Request().Context()
	h.driverUC.StopDriving(ctx)
	return utils.SuccessResponse(c, http.StatusOK, "Driving stopped", h.driverUC.Status(ctx))
}

func (h *DriverHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, driver.ErrInvalidRoute), errors.Is(err, driver.ErrInvalidDirection):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, driver.ErrNotConfigured):
		return utils.PreconditionFailedResponse(c, err.Error())
	case errors.Is(err, driver.ErrDrivingLocked), errors.Is(err, driver.ErrAlreadyDriving):
		return utils.ConflictResponse(c, err.Error())
	default:
		logger.Error("Driver operation failed", logger.Err(err))
		middleware.NoticeError(c, err)
		return utils.InternalServerErrorResponse(c, "")
	}
}
