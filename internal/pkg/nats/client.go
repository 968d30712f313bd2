package nats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/piresc/unitransport/internal/pkg/config"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/transport"
)

func init() {
	transport.Register(constants.TransportNATS, func(cfg models.TransportConfig, clientID string) (transport.Client, error) {
		return NewClient(cfg, clientID)
	})
}

// Client is the NATS transport. The nats.go connection handles reconnects
// itself, configured for a fixed unbounded delay and no publish buffering.
type Client struct {
	*transport.Base

	url      string
	subject  string
	clientID string
	cfg      models.TransportConfig

	mu   sync.RWMutex
	conn *nats.Conn
	sub  *nats.Subscription
}

// NewClient creates a NATS client without connecting
func NewClient(cfg models.TransportConfig, clientID string) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url is required")
	}

	return &Client{
		Base:     transport.NewBase(constants.TransportNATS),
		url:      cfg.URL,
		subject:  transport.DotTopic(cfg.Topic),
		clientID: clientID,
		cfg:      cfg,
	}, nil
}

// Connect dials the server. An unreachable server is retried in the background.
func (c *Client) Connect(ctx context.Context) error {
	delay := config.DurationOr(c.cfg.ReconnectDelay, constants.DefaultReconnectDelay)

	opts := []nats.Option{
		nats.Name(c.clientID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(delay),
		nats.ReconnectJitter(0, 0),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectBufSize(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS connection lost",
				logger.String("client_id", c.clientID),
				logger.Duration("reconnect_delay", delay),
				logger.Err(err))
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("NATS connection re-established",
				logger.String("client_id", c.clientID),
				logger.String("url", conn.ConnectedUrl()))
		}),
		nats.ConnectHandler(func(conn *nats.Conn) {
			logger.Info("NATS connection established",
				logger.String("client_id", c.clientID),
				logger.String("url", conn.ConnectedUrl()))
		}),
	}
	if c.cfg.ConnectTimeout > 0 {
		opts = append(opts, nats.Timeout(c.cfg.ConnectTimeout))
	}

	conn, err := nats.Connect(c.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if !c.HasHandler() {
		return nil
	}

	// subscriptions on a reconnecting connection are replayed once it is up
	sub, err := conn.Subscribe(c.subject, func(msg *nats.Msg) {
		c.Deliver(msg.Data)
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to subject: %w", err)
	}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	logger.Info("Subscribed to NATS subject", logger.String("subject", c.subject))
	return nil
}

// Publish sends a sample on the shared subject, dropping it while disconnected
func (c *Client) Publish(ctx context.Context, sample models.PositionSample) error {
	data, err := transport.Encode(sample)
	if err != nil {
		return err
	}

	conn := c.GetConn()
	if conn == nil || !conn.IsConnected() {
		c.MarkDropped(sample, nil)
		return nil
	}

	if err := conn.Publish(c.subject, data); err != nil {
		c.MarkDropped(sample, err)
		return nil
	}

	c.MarkPublished()
	return nil
}

// GetConn returns the underlying connection, nil before Connect
func (c *Client) GetConn() *nats.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// IsConnected reports whether the connection is currently usable
func (c *Client) IsConnected() bool {
	conn := c.GetConn()
	return conn != nil && conn.IsConnected()
}

// Stats returns the traffic counters
func (c *Client) Stats() models.TransportStats {
	return c.Snapshot(c.IsConnected())
}

// Close unsubscribes and closes the NATS connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil {
		_ = c.sub.Unsubscribe()
		c.sub = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return nil
}
