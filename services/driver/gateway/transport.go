package gateway

import (
	"context"

	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/transport"
	"github.com/piresc/unitransport/services/driver"
)

// TransportPositionGW publishes samples through the broker client
type TransportPositionGW struct {
	client transport.Client
}

// NewTransportPositionGW creates a position gateway over a transport client
func NewTransportPositionGW(client transport.Client) driver.PositionGW {
	return &TransportPositionGW{client: client}
}

// Publish hands the sample to the client. A disconnected client drops it
// and returns nil.
func (g *TransportPositionGW) Publish(ctx context.Context, sample models.PositionSample) error {
	return g.client.Publish(ctx, sample)
}
