package fleet

import (
	"context"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// FleetUC serializes ingest, filter changes and view queries through one event loop
type FleetUC interface {
	// Run owns the loop until ctx is cancelled
	Run(ctx context.Context) error

	// Ingest queues an inbound sample for the loop
	Ingest(ctx context.Context, sample models.PositionSample) error

	// Filter operations
	Filter(ctx context.Context) (models.ViewFilter, error)
	SetFilter(ctx context.Context, filter models.ViewFilter) (models.RenderInstruction, error)

	// View recomputes the current instruction without moving the render baseline
	View(ctx context.Context) (models.RenderInstruction, error)
}
