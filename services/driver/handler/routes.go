package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/unitransport/services/driver"
	httpHandler "github.com/piresc/unitransport/services/driver/handler/http"
)

// Handler combines all handlers for the driver service
type Handler struct {
	driverHTTP *httpHandler.DriverHandler
}

// NewHandler creates a new combined handler
func NewHandler(driverUC driver.DriverUC) *Handler {
	return &Handler{
		driverHTTP: httpHandler.NewDriverHandler(driverUC),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	h.driverHTTP.RegisterRoutes(e)
}
