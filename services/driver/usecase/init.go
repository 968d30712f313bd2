package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/services/driver"
)

// DriverUC implements the driver use case interface
type DriverUC struct {
	cfg        models.DriverConfig
	endpoints  models.Endpoints
	positionGW driver.PositionGW
	feed       driver.LocationFeed
	now        func() time.Time

	publisherID string

	mu          sync.Mutex
	state       models.DriverState
	route       int
	direction   models.Direction
	handle      interface{}
	simulator   *Simulator
	lastSample  *models.PositionSample
	lastPublish time.Time
}

// NewDriverUC creates a new driver use case. feed may be nil, in which case
// driving always uses the simulator.
func NewDriverUC(
	cfg *models.Config,
	positionGW driver.PositionGW,
	feed driver.LocationFeed,
) *DriverUC {
	return &DriverUC{
		cfg:         cfg.Driver,
		endpoints:   cfg.Locations,
		positionGW:  positionGW,
		feed:        feed,
		now:         time.Now,
		publisherID: constants.PublisherIDPrefix + uuid.NewString(),
		state:       models.DriverStateIdle,
	}
}

// PublisherID is stable for the lifetime of the process
func (uc *DriverUC) PublisherID() string {
	return uc.publisherID
}
