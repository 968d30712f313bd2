package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/piresc/unitransport/internal/pkg/config"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/retry"
	"github.com/piresc/unitransport/internal/pkg/transport"
)

const (
	qos            byte = 0
	publishTimeout      = 2 * time.Second
)

func init() {
	transport.Register(constants.TransportMQTT, func(cfg models.TransportConfig, clientID string) (transport.Client, error) {
		return NewClient(cfg, clientID)
	})
}

// ClientFactory builds the underlying paho client
type ClientFactory func(opts *pahomqtt.ClientOptions) pahomqtt.Client

// Client is the MQTT transport. Paho's own reconnect is disabled; a fixed
// delay loop dials the broker until it answers and again after every loss.
type Client struct {
	*transport.Base

	cfg       models.TransportConfig
	clientID  string
	delay     time.Duration
	newClient ClientFactory

	mu        sync.RWMutex
	client    pahomqtt.Client
	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	reconnect chan struct{}
}

// NewClient creates an MQTT client without connecting
func NewClient(cfg models.TransportConfig, clientID string) (*Client, error) {
	return NewClientWithFactory(cfg, clientID, pahomqtt.NewClient)
}

// NewClientWithFactory creates an MQTT client using a custom paho constructor
func NewClientWithFactory(cfg models.TransportConfig, clientID string, factory ClientFactory) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("mqtt broker url is required")
	}
	if factory == nil {
		return nil, errors.New("mqtt client factory is required")
	}

	return &Client{
		Base:      transport.NewBase(constants.TransportMQTT),
		cfg:       cfg,
		clientID:  clientID,
		delay:     config.DurationOr(cfg.ReconnectDelay, constants.DefaultReconnectDelay),
		newClient: factory,
		reconnect: make(chan struct{}, 1),
	}, nil
}

// Connect starts the connection loop and returns immediately
func (c *Client) Connect(ctx context.Context) error {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(c.cfg.URL)
	opts.SetClientID(c.clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	if c.cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(c.cfg.ConnectTimeout)
	}
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	loopCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		cancel()
		return errors.New("mqtt client already connected")
	}
	c.client = c.newClient(opts)
	c.ctx = loopCtx
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(loopCtx)
	c.signalReconnect()

	return nil
}

// run dials whenever a (re)connect is requested, with a fixed delay between failures
func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()

	retrier := retry.New(retry.FixedConfig("mqtt-connect", c.delay), nil)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.reconnect:
		}

		err := retrier.Execute(ctx, func(ctx context.Context) error {
			return c.dial()
		})
		if err != nil {
			// only context cancellation ends an unlimited retrier
			return
		}
	}
}

func (c *Client) dial() error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		logger.Warn("MQTT connect failed",
			logger.String("broker", c.cfg.URL),
			logger.Duration("retry_in", c.delay),
			logger.Err(err))
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	return nil
}

func (c *Client) onConnect(client pahomqtt.Client) {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	logger.Info("MQTT connection established",
		logger.String("broker", c.cfg.URL),
		logger.String("client_id", c.clientID))

	if !c.HasHandler() {
		return
	}

	// clean sessions forget subscriptions, so subscribe on every connect
	token := client.Subscribe(c.cfg.Topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.Deliver(msg.Payload())
	})
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			logger.Error("MQTT subscribe failed",
				logger.String("topic", c.cfg.Topic),
				logger.Err(err))
			return
		}
		logger.Info("Subscribed to MQTT topic", logger.String("topic", c.cfg.Topic))
	}()
}

func (c *Client) onConnectionLost(_ pahomqtt.Client, err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	logger.Warn("MQTT connection lost",
		logger.String("broker", c.cfg.URL),
		logger.Duration("reconnect_delay", c.delay),
		logger.Err(err))

	go func() {
		c.mu.RLock()
		ctx := c.ctx
		c.mu.RUnlock()
		if ctx == nil {
			return
		}

		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			c.signalReconnect()
		}
	}()
}

func (c *Client) signalReconnect() {
	select {
	case c.reconnect <- struct{}{}:
	default:
	}
}

// Publish sends a sample on the shared topic, dropping it while disconnected
func (c *Client) Publish(ctx context.Context, sample models.PositionSample) error {
	payload, err := transport.Encode(sample)
	if err != nil {
		return err
	}

	c.mu.RLock()
	client, connected := c.client, c.connected
	c.mu.RUnlock()

	if client == nil || !connected {
		c.MarkDropped(sample, nil)
		return nil
	}

	token := client.Publish(c.cfg.Topic, qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		c.MarkDropped(sample, errors.New("publish timeout"))
		return nil
	}
	if err := token.Error(); err != nil {
		c.MarkDropped(sample, err)
		return nil
	}

	c.MarkPublished()
	return nil
}

// IsConnected reports whether the broker session is up
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Stats returns the traffic counters
func (c *Client) Stats() models.TransportStats {
	return c.Snapshot(c.IsConnected())
}

// Close stops the reconnect loop and disconnects
func (c *Client) Close() error {
	c.mu.Lock()
	cancel, client := c.cancel, c.client
	c.cancel = nil
	c.connected = false
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	c.wg.Wait()

	if client != nil && client.IsConnected() {
		client.Disconnect(250)
	}
	return nil
}
