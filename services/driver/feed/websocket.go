package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/services/driver"
)

const positionBuffer = 16

// WebSocketFeed reads device positions streamed as JSON frames by a local
// location service
type WebSocketFeed struct {
	url    string
	dialer *websocket.Dialer
}

// NewWebSocketFeed creates a feed for url. An empty url yields nil so the
// driver runs on simulation only.
func NewWebSocketFeed(url string, handshakeTimeout time.Duration) driver.LocationFeed {
	if url == "" {
		return nil
	}
	return &WebSocketFeed{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Watch dials the feed and streams positions until ctx is cancelled or the
// connection fails
func (f *WebSocketFeed) Watch(ctx context.Context) (<-chan models.DevicePosition, error) {
	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrLocationUnavailable, err)
	}

	logger.Info("Location feed connected", logger.String("url", f.url))

	out := make(chan models.DevicePosition, positionBuffer)
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	go f.readLoop(ctx, conn, out)
	return out, nil
}

func (f *WebSocketFeed) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- models.DevicePosition) {
	defer close(out)
	for {
		var pos models.DevicePosition
		if err := conn.ReadJSON(&pos); err != nil {
			if ctx.Err() != nil {
				return
			}
			pos = models.DevicePosition{Error: err.Error()}
		}

		select {
		case out <- pos:
		case <-ctx.Done():
			return
		}
		if pos.Error != "" {
			return
		}
	}
}
