package repository

import (
	"fmt"

	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/database"
	"github.com/piresc/unitransport/services/fleet"
)

// NewFleetStateRepo builds the store selected by driver
func NewFleetStateRepo(driver string, redisClient *database.RedisClient, subscriberID string) (fleet.FleetStateRepo, error) {
	switch driver {
	case "", constants.StoreMemory:
		return NewMemoryFleetRepo(), nil
	case constants.StoreRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis store requires a redis client")
		}
		return NewRedisFleetRepo(redisClient, subscriberID), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
