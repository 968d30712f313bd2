package transport

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// ErrUnknownDriver is returned by New for a driver name nobody registered
var ErrUnknownDriver = errors.New("unknown transport driver")

// Handler receives every decoded inbound sample
type Handler func(sample models.PositionSample)

// Client is a publish/subscribe connection to the single shared broker topic.
//
// Connect never fails because the broker is unreachable; the client keeps
// trying on a fixed delay. Publish drops samples while disconnected and only
// fails when a sample cannot be encoded. A handler registered with OnMessage
// before Connect makes the client subscribe.
type Client interface {
	Connect(ctx context.Context) error
	Publish(ctx context.Context, sample models.PositionSample) error
	OnMessage(handler Handler)
	IsConnected() bool
	Stats() models.TransportStats
	Close() error
}

// Factory builds a client for one driver
type Factory func(cfg models.TransportConfig, clientID string) (Client, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a driver available to New. It panics when called twice for
// the same name.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if factory == nil {
		panic("transport: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("transport: Register called twice for driver " + name)
	}
	factories[name] = factory
}

// Drivers returns the sorted names of the registered drivers
func Drivers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the client selected by cfg.Driver
func New(cfg models.TransportConfig, clientID string) (Client, error) {
	factoriesMu.RLock()
	factory, ok := factories[cfg.Driver]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	return factory(cfg, clientID)
}

// DotTopic converts the slash separated topic into the dotted form used by
// brokers that reserve '/' in subject names
func DotTopic(topic string) string {
	return strings.ReplaceAll(topic, "/", ".")
}
