package transport

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/piresc/unitransport/internal/pkg/codec"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
)

// Base carries the handler registration, inbound decoding and counters
// shared by every driver. Drivers embed it.
type Base struct {
	driver string

	mu      sync.RWMutex
	handler Handler

	published atomic.Uint64
	dropped   atomic.Uint64
	received  atomic.Uint64
	malformed atomic.Uint64
}

// NewBase creates the shared state for the named driver
func NewBase(driver string) *Base {
	return &Base{driver: driver}
}

// OnMessage registers the inbound handler, replacing any previous one
func (b *Base) OnMessage(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
}

// HasHandler reports whether the client should subscribe
func (b *Base) HasHandler() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handler != nil
}

// Deliver decodes one raw payload and hands it to the handler.
// Malformed payloads are counted and skipped.
func (b *Base) Deliver(payload []byte) {
	sample, err := codec.DecodeSample(payload)
	if err != nil {
		b.malformed.Add(1)
		logger.Warn("Skipping malformed position message",
			logger.String("driver", b.driver),
			logger.Int("size", len(payload)),
			logger.Err(err))
		return
	}

	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()

	b.received.Add(1)
	if handler != nil {
		handler(sample)
	}
}

// MarkPublished counts a sample handed to the broker
func (b *Base) MarkPublished() {
	b.published.Add(1)
}

// MarkDropped counts a sample discarded because the broker was unreachable
func (b *Base) MarkDropped(sample models.PositionSample, cause error) {
	b.dropped.Add(1)
	fields := []logger.Field{
		logger.String("driver", b.driver),
		logger.String("publisher_id", sample.PublisherID),
	}
	if cause != nil {
		fields = append(fields, logger.Err(cause))
	}
	logger.Debug("Transport not connected, dropping sample", fields...)
}

// Snapshot returns the counters with the given connection state
func (b *Base) Snapshot(connected bool) models.TransportStats {
	return models.TransportStats{
		Driver:    b.driver,
		Connected: connected,
		Published: b.published.Load(),
		Dropped:   b.dropped.Load(),
		Received:  b.received.Load(),
		Malformed: b.malformed.Load(),
	}
}

// Encode serializes a sample for the wire
func Encode(sample models.PositionSample) ([]byte, error) {
	payload, err := codec.EncodeSample(sample)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return payload, nil
}

// ErrEncode marks a publish that failed before reaching the broker
var ErrEncode = errors.New("failed to encode position sample")
