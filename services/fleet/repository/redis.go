package repository

import (
	"context"
	"fmt"

	"github.com/piresc/unitransport/internal/pkg/codec"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/database"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/services/fleet"
)

// RedisFleetRepo keeps one hash per subscriber session, field = publisher id,
// value = the sample in wire format
type RedisFleetRepo struct {
	redisClient *database.RedisClient
	key         string
}

// NewRedisFleetRepo creates a store scoped to one subscriber session
func NewRedisFleetRepo(redisClient *database.RedisClient, subscriberID string) fleet.FleetStateRepo {
	return &RedisFleetRepo{
		redisClient: redisClient,
		key:         fmt.Sprintf(constants.KeyFleetSamples, subscriberID),
	}
}

// Ingest overwrites the publisher's field and refreshes the session expiry
func (r *RedisFleetRepo) Ingest(ctx context.Context, sample models.PositionSample) error {
	payload, err := codec.EncodeSample(sample)
	if err != nil {
		return err
	}

	if err := r.redisClient.HSetWithTTL(ctx, r.key, sample.PublisherID, payload, constants.FleetSamplesTTL); err != nil {
		return fmt.Errorf("failed to store position sample: %w", err)
	}
	return nil
}

// Snapshot reads every field. Values that no longer decode are skipped.
func (r *RedisFleetRepo) Snapshot(ctx context.Context) ([]models.PositionSample, error) {
	fields, err := r.redisClient.HGetAll(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet samples: %w", err)
	}

	out := make([]models.PositionSample, 0, len(fields))
	for id, raw := range fields {
		sample, err := codec.DecodeSample([]byte(raw))
		if err != nil {
			logger.Warn("Skipping undecodable stored sample",
				logger.String("key", r.key),
				logger.String("publisher_id", id),
				logger.Err(err))
			continue
		}
		out = append(out, sample)
	}
	return out, nil
}
