package repository

import (
	"context"
	"sync"

	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/services/fleet"
)

// MemoryFleetRepo keeps samples in process memory
type MemoryFleetRepo struct {
	mu      sync.RWMutex
	samples map[string]models.PositionSample
}

// NewMemoryFleetRepo creates an empty in-memory store
func NewMemoryFleetRepo() fleet.FleetStateRepo {
	return &MemoryFleetRepo{
		samples: make(map[string]models.PositionSample),
	}
}

// Ingest overwrites by publisher id. Arrival order wins; timestamps are not compared.
func (r *MemoryFleetRepo) Ingest(ctx context.Context, sample models.PositionSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[sample.PublisherID] = sample
	return nil
}

// Snapshot copies out every stored sample
func (r *MemoryFleetRepo) Snapshot(ctx context.Context) ([]models.PositionSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PositionSample, 0, len(r.samples))
	for _, s := range r.samples {
		out = append(out, s)
	}
	return out, nil
}
