package transport

import (
	"context"

	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	transportpkg "github.com/piresc/unitransport/internal/pkg/transport"
	"github.com/piresc/unitransport/services/fleet"
)

// FleetConsumer feeds samples arriving on the shared topic into the fleet loop
type FleetConsumer struct {
	fleetUC fleet.FleetUC
	client  transportpkg.Client
}

// NewFleetConsumer creates a new fleet transport consumer
func NewFleetConsumer(fleetUC fleet.FleetUC, client transportpkg.Client) *FleetConsumer {
	return &FleetConsumer{
		fleetUC: fleetUC,
		client:  client,
	}
}

// InitConsumer registers the message handler. It must run before the client
// connects so the client subscribes.
func (h *FleetConsumer) InitConsumer(ctx context.Context) {
	h.client.OnMessage(func(sample models.PositionSample) {
		h.handleSample(ctx, sample)
	})
}

func (h *FleetConsumer) handleSample(ctx context.Context, sample models.PositionSample) {
	if err := h.fleetUC.Ingest(ctx, sample); err != nil {
		logger.Warn("Failed to queue position sample",
			logger.String("publisher_id", sample.PublisherID),
			logger.Err(err))
	}
}
