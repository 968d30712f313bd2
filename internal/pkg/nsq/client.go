package nsq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/piresc/unitransport/internal/pkg/config"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/retry"
	"github.com/piresc/unitransport/internal/pkg/transport"
)

const ephemeralSuffix = "#ephemeral"

func init() {
	transport.Register(constants.TransportNSQ, func(cfg models.TransportConfig, clientID string) (transport.Client, error) {
		return NewClient(cfg, clientID)
	})
}

// Client is the NSQ transport. Publishing goes to a single nsqd; each
// subscriber reads through its own ephemeral channel so every subscriber
// sees every message.
type Client struct {
	*transport.Base

	cfg      models.TransportConfig
	topic    string
	channel  string
	clientID string
	delay    time.Duration
	nsqCfg   *nsq.Config

	producer *nsq.Producer

	mu         sync.RWMutex
	consumer   *nsq.Consumer
	producerUp bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewClient creates an NSQ client without connecting
func NewClient(cfg models.TransportConfig, clientID string) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("nsqd address is required")
	}

	delay := config.DurationOr(cfg.ReconnectDelay, constants.DefaultReconnectDelay)

	nsqCfg := nsq.NewConfig()
	// direct nsqd connections are re-dialed on this interval after a loss
	nsqCfg.LookupdPollInterval = delay
	nsqCfg.LookupdPollJitter = 0
	if cfg.ConnectTimeout > 0 {
		nsqCfg.DialTimeout = cfg.ConnectTimeout
	}

	producer, err := nsq.NewProducer(strings.TrimPrefix(cfg.URL, "nsq://"), nsqCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	producer.SetLogger(logAdapter{}, nsq.LogLevelWarning)

	return &Client{
		Base:     transport.NewBase(constants.TransportNSQ),
		cfg:      cfg,
		topic:    transport.DotTopic(cfg.Topic),
		channel:  ChannelName(clientID),
		clientID: clientID,
		delay:    delay,
		nsqCfg:   nsqCfg,
		producer: producer,
	}, nil
}

// ChannelName returns the ephemeral channel a subscriber consumes from.
// nsqd drops ephemeral channels once their last consumer leaves.
func ChannelName(clientID string) string {
	return clientID + ephemeralSuffix
}

// Connect starts the producer liveness probe and, when a handler is
// registered, the consumer as well. Neither blocks on an unreachable nsqd.
func (c *Client) Connect(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		cancel()
		return errors.New("nsq client already connected")
	}
	c.cancel = cancel
	c.mu.Unlock()

	if c.HasHandler() {
		consumer, err := nsq.NewConsumer(c.topic, c.channel, c.nsqCfg)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to create NSQ consumer: %w", err)
		}
		consumer.SetLogger(logAdapter{}, nsq.LogLevelWarning)
		consumer.AddHandler(c)

		c.mu.Lock()
		c.consumer = consumer
		c.mu.Unlock()

		c.wg.Add(1)
		go c.connectConsumer(loopCtx, consumer)
	}

	c.wg.Add(1)
	go c.probeProducer(loopCtx)
	return nil
}

// connectConsumer dials until the first connection succeeds; go-nsq
// re-dials on its own after that
func (c *Client) connectConsumer(ctx context.Context, consumer *nsq.Consumer) {
	defer c.wg.Done()

	retrier := retry.New(retry.FixedConfig("nsq-consumer", c.delay), nil)
	_ = retrier.Execute(ctx, func(ctx context.Context) error {
		var err error
		if len(c.cfg.LookupdAddresses) > 0 {
			err = consumer.ConnectToNSQLookupds(c.cfg.LookupdAddresses)
		} else {
			err = consumer.ConnectToNSQD(strings.TrimPrefix(c.cfg.URL, "nsq://"))
		}
		if err != nil && !errors.Is(err, nsq.ErrAlreadyConnected) {
			logger.Warn("NSQ consumer connect failed",
				logger.String("topic", c.topic),
				logger.String("channel", c.channel),
				logger.Duration("retry_in", c.delay),
				logger.Err(err))
			return err
		}
		logger.Info("Subscribed to NSQ topic",
			logger.String("topic", c.topic),
			logger.String("channel", c.channel))
		return nil
	})
}

// probeProducer pings nsqd on the fixed delay and tracks reachability
func (c *Client) probeProducer(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.delay)
	defer ticker.Stop()

	for {
		c.setProducerUp(c.producer.Ping() == nil)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Client) setProducerUp(up bool) {
	c.mu.Lock()
	was := c.producerUp
	c.producerUp = up
	c.mu.Unlock()

	switch {
	case up && !was:
		logger.Info("NSQ producer connected", logger.String("nsqd", c.cfg.URL))
	case !up && was:
		logger.Warn("NSQ producer lost nsqd",
			logger.String("nsqd", c.cfg.URL),
			logger.Duration("reconnect_delay", c.delay))
	}
}

// HandleMessage implements nsq.Handler
func (c *Client) HandleMessage(message *nsq.Message) error {
	if len(message.Body) == 0 {
		return nil
	}
	c.Deliver(message.Body)
	return nil
}

// Publish sends a sample on the shared topic, dropping it while nsqd is unreachable
func (c *Client) Publish(ctx context.Context, sample models.PositionSample) error {
	payload, err := transport.Encode(sample)
	if err != nil {
		return err
	}

	c.mu.RLock()
	up := c.producerUp
	c.mu.RUnlock()

	if !up {
		c.MarkDropped(sample, nil)
		return nil
	}

	if err := c.producer.Publish(c.topic, payload); err != nil {
		c.setProducerUp(false)
		c.MarkDropped(sample, err)
		return nil
	}

	c.MarkPublished()
	return nil
}

// IsConnected reports consumer connectivity for subscribers and nsqd
// reachability for publishers
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.consumer != nil {
		return c.consumer.Stats().Connections > 0
	}
	return c.producerUp
}

// Stats returns the traffic counters
func (c *Client) Stats() models.TransportStats {
	return c.Snapshot(c.IsConnected())
}

// Close stops the consumer and producer
func (c *Client) Close() error {
	c.mu.Lock()
	cancel, consumer := c.cancel, c.consumer
	c.cancel = nil
	c.consumer = nil
	c.producerUp = false
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()

	if consumer != nil {
		consumer.Stop()
		<-consumer.StopChan
	}
	c.producer.Stop()
	return nil
}

// logAdapter routes go-nsq log lines into the application logger
type logAdapter struct{}

func (logAdapter) Output(calldepth int, s string) error {
	switch {
	case strings.HasPrefix(s, "ERR"):
		logger.Error("nsq", logger.String("detail", s))
	case strings.HasPrefix(s, "WRN"):
		logger.Warn("nsq", logger.String("detail", s))
	default:
		logger.Debug("nsq", logger.String("detail", s))
	}
	return nil
}
