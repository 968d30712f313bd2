package fleet

import (
	"context"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// RenderGW delivers render instructions to the presentation layer
type RenderGW interface {
	Render(ctx context.Context, instruction models.RenderInstruction) error
}
