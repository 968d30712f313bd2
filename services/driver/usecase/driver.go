package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/utils"
	"github.com/piresc/unitransport/services/driver"
)

// timerHandle owns the simulator goroutine
type timerHandle struct {
	ticker *time.Ticker
	cancel context.CancelFunc
	done   chan struct{}
}

// watchHandle owns the live feed goroutine
type watchHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func generatorKind(handle interface{}) models.GeneratorKind {
	switch handle.(type) {
	case *timerHandle:
		return models.GeneratorTimer
	case *watchHandle:
		return models.GeneratorWatch
	}
	return models.GeneratorNone
}

// stopGenerator cancels whatever handle is active and returns a channel
// closed once its goroutine has exited, or nil when there was none
func stopGenerator(handle interface{}) <-chan struct{} {
	switch h := handle.(type) {
	case *timerHandle:
		h.ticker.Stop()
		h.cancel()
		return h.done
	case *watchHandle:
		h.cancel()
		return h.done
	}
	return nil
}

// Status returns a snapshot of the session
func (uc *DriverUC) Status(ctx context.Context) models.DriverStatus {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	status := models.DriverStatus{
		PublisherID: uc.publisherID,
		State:       uc.state,
		Route:       uc.route,
		Direction:   uc.direction,
		Generator:   generatorKind(uc.handle),
	}
	if uc.simulator != nil {
		status.Progress = uc.simulator.Progress()
	}
	if uc.lastSample != nil {
		last := *uc.lastSample
		status.LastSample = &last
	}

	if uc.direction.Valid() {
		pos, end := uc.endpoints.Segment(uc.direction)
		if uc.lastSample != nil && uc.lastSample.Direction == uc.direction {
			pos = uc.lastSample.Point()
		}
		km := utils.CalculateDistance(utils.GeoPointFromPoint(pos), utils.GeoPointFromPoint(end))
		status.RemainingKm = math.Round(km*100) / 100
	}
	return status
}

// SetRoute selects the route number
func (uc *DriverUC) SetRoute(ctx context.Context, route int) error {
	if route < 1 {
		return fmt.Errorf("%w: %d", driver.ErrInvalidRoute, route)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state == models.DriverStateDriving {
		return driver.ErrDrivingLocked
	}
	uc.route = route
	uc.state = models.DriverStateConfiguring
	return nil
}

// SetDirection selects the travel direction
func (uc *DriverUC) SetDirection(ctx context.Context, direction string) error {
	d, err := models.ParseDirection(direction)
	if err != nil {
		return fmt.Errorf("%w: %q", driver.ErrInvalidDirection, direction)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state == models.DriverStateDriving {
		return driver.ErrDrivingLocked
	}
	uc.direction = d
	uc.state = models.DriverStateConfiguring
	return nil
}

// StartDriving begins publishing. The live feed is tried first when one is
// configured; any failure to open it falls back to the simulator. The feed
// is dialed without holding the lock, so Status and StopDriving stay
// responsive while it connects.
func (uc *DriverUC) StartDriving(ctx context.Context) error {
	uc.mu.Lock()
	if uc.state == models.DriverStateDriving {
		uc.mu.Unlock()
		return driver.ErrAlreadyDriving
	}
	if uc.route == 0 || !uc.direction.Valid() {
		uc.mu.Unlock()
		return driver.ErrNotConfigured
	}

	uc.state = models.DriverStateDriving
	uc.simulator = NewSimulator(uc.endpoints, uc.direction, uc.cfg.SimulationStep)
	uc.lastPublish = time.Time{}

	if uc.feed == nil {
		uc.startTimerLocked()
		uc.logDriving("simulated motion")
		uc.mu.Unlock()
		return nil
	}

	// reserve the session before dialing; a StopDriving meanwhile cancels it
	watchCtx, cancel := context.WithCancel(context.Background())
	h := &watchHandle{cancel: cancel, done: make(chan struct{})}
	uc.handle = h
	uc.mu.Unlock()

	positions, err := uc.feed.Watch(watchCtx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.handle != h {
		cancel()
		close(h.done)
		return nil
	}

	if err != nil {
		cancel()
		close(h.done)
		logger.Warn("Live location unavailable, using simulation",
			logger.String("publisher_id", uc.publisherID),
			logger.Err(err))
		uc.startTimerLocked()
		uc.logDriving("simulated motion")
		return nil
	}

	go uc.runWatch(watchCtx, h, positions)
	uc.logDriving("live location feed")
	return nil
}

func (uc *DriverUC) logDriving(source string) {
	logger.Info("Driving started",
		logger.String("publisher_id", uc.publisherID),
		logger.String("source", source),
		logger.Int("route", uc.route),
		logger.String("direction", string(uc.direction)))
}

// StopDriving cancels the active generator and returns to idle. It waits for
// the generator goroutine to exit, so no sample is published after it returns.
func (uc *DriverUC) StopDriving(ctx context.Context) {
	uc.mu.Lock()
	handle := uc.handle
	uc.handle = nil
	if uc.state == models.DriverStateDriving {
		uc.state = models.DriverStateIdle
		logger.Info("Driving stopped", logger.String("publisher_id", uc.publisherID))
	}
	uc.mu.Unlock()

	if done := stopGenerator(handle); done != nil {
		<-done
	}
}

func (uc *DriverUC) startTimerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	h := &timerHandle{
		ticker: time.NewTicker(uc.cfg.TickInterval),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	uc.handle = h
	go uc.runTimer(ctx, h)
}

func (uc *DriverUC) runTimer(ctx context.Context, h *timerHandle) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.ticker.C:
			uc.tick(ctx, h)
		}
	}
}

func (uc *DriverUC) tick(ctx context.Context, h *timerHandle) {
	uc.mu.Lock()
	if uc.handle != h {
		uc.mu.Unlock()
		return
	}
	sample := uc.sampleLocked(uc.simulator.Advance(), uc.now())
	uc.mu.Unlock()

	uc.publish(ctx, sample)
}

func (uc *DriverUC) runWatch(ctx context.Context, h *watchHandle, positions <-chan models.DevicePosition) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case pos, ok := <-positions:
			if !ok {
				uc.fallback(h, driver.ErrLocationUnavailable)
				return
			}
			if pos.Error != "" {
				uc.fallback(h, fmt.Errorf("%w: %s", driver.ErrLocationUnavailable, pos.Error))
				return
			}
			uc.publishLive(ctx, h, pos)
		}
	}
}

// fallback swaps a failed live feed for the simulator, unless the session
// has already moved on
func (uc *DriverUC) fallback(h *watchHandle, cause error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.handle != h {
		return
	}
	h.cancel()

	logger.Warn("Live location lost, falling back to simulation",
		logger.String("publisher_id", uc.publisherID),
		logger.Err(cause))
	uc.startTimerLocked()
}

func (uc *DriverUC) publishLive(ctx context.Context, h *watchHandle, pos models.DevicePosition) {
	uc.mu.Lock()
	if uc.handle != h {
		uc.mu.Unlock()
		return
	}
	now := uc.now()
	if !uc.lastPublish.IsZero() && now.Sub(uc.lastPublish) < uc.cfg.MinPublishInterval {
		uc.mu.Unlock()
		return
	}
	sample := uc.sampleLocked(models.Point{Lat: pos.Latitude, Lng: pos.Longitude}, now)
	uc.mu.Unlock()

	uc.publish(ctx, sample)
}

func (uc *DriverUC) sampleLocked(p models.Point, now time.Time) models.PositionSample {
	sample := models.PositionSample{
		PublisherID: uc.publisherID,
		Route:       uc.route,
		Direction:   uc.direction,
		Lat:         p.Lat,
		Lng:         p.Lng,
		LastUpdate:  models.Millis(now),
	}
	uc.lastSample = &sample
	uc.lastPublish = now
	return sample
}

func (uc *DriverUC) publish(ctx context.Context, sample models.PositionSample) {
	if err := uc.positionGW.Publish(ctx, sample); err != nil {
		logger.Warn("Failed to publish position",
			logger.String("publisher_id", sample.PublisherID),
			logger.Err(err))
	}
}
