package driver

import (
	"context"
	"errors"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// ErrLocationUnavailable means no live device position can be obtained
var ErrLocationUnavailable = errors.New("device location unavailable")

// LocationFeed streams live device positions.
//
// Watch returns ErrLocationUnavailable when the feed cannot be opened. The
// returned channel is closed when ctx is cancelled or the feed fails; a
// position carrying a non-empty Error is the last one sent before a failure.
type LocationFeed interface {
	Watch(ctx context.Context) (<-chan models.DevicePosition, error)
}
