package fleet

import (
	"context"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// FleetStateRepo holds the latest sample per publisher
type FleetStateRepo interface {
	// Ingest stores the sample, replacing whatever the publisher sent before
	Ingest(ctx context.Context, sample models.PositionSample) error
	// Snapshot returns every stored sample without modifying the store
	Snapshot(ctx context.Context) ([]models.PositionSample, error)
}
