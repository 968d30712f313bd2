package driver

import (
	"context"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// PositionGW broadcasts samples on the shared topic
type PositionGW interface {
	Publish(ctx context.Context, sample models.PositionSample) error
}
