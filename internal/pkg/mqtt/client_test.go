package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeToken is an already completed paho token
type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// fakeBroker routes publishes to every subscribed fake client
type fakeBroker struct {
	mu       sync.Mutex
	up       bool
	dials    int
	clients  []*fakeClient
	handlers map[*fakeClient]pahomqtt.MessageHandler
	subCalls int
}

func newFakeBroker(up bool) *fakeBroker {
	return &fakeBroker{up: up, handlers: make(map[*fakeClient]pahomqtt.MessageHandler)}
}

func (b *fakeBroker) factory(opts *pahomqtt.ClientOptions) pahomqtt.Client {
	fc := &fakeClient{broker: b, opts: opts}
	b.mu.Lock()
	b.clients = append(b.clients, fc)
	b.mu.Unlock()
	return fc
}

func (b *fakeBroker) setUp(up bool) {
	b.mu.Lock()
	b.up = up
	b.mu.Unlock()
}

func (b *fakeBroker) dialCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

func (b *fakeBroker) subscribeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subCalls
}

// dropAll simulates the broker going away
func (b *fakeBroker) dropAll() {
	b.mu.Lock()
	b.up = false
	clients := append([]*fakeClient(nil), b.clients...)
	b.handlers = make(map[*fakeClient]pahomqtt.MessageHandler)
	b.mu.Unlock()

	for _, c := range clients {
		c.lose(errors.New("connection reset"))
	}
}

func (b *fakeBroker) deliver(topic string, payload []byte) {
	b.mu.Lock()
	handlers := make([]pahomqtt.MessageHandler, 0, len(b.handlers))
	clients := make([]*fakeClient, 0, len(b.handlers))
	for c, h := range b.handlers {
		clients = append(clients, c)
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for i, h := range handlers {
		h(clients[i], &fakeMessage{topic: topic, payload: payload})
	}
}

type fakeClient struct {
	broker *fakeBroker
	opts   *pahomqtt.ClientOptions

	mu        sync.Mutex
	connected bool
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) IsConnectionOpen() bool { return c.IsConnected() }

func (c *fakeClient) Connect() pahomqtt.Token {
	c.broker.mu.Lock()
	c.broker.dials++
	up := c.broker.up
	c.broker.mu.Unlock()

	if !up {
		return &fakeToken{err: errors.New("connection refused")}
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	if c.opts.OnConnect != nil {
		go c.opts.OnConnect(c)
	}
	return &fakeToken{}
}

func (c *fakeClient) lose(err error) {
	c.mu.Lock()
	was := c.connected
	c.connected = false
	c.mu.Unlock()

	if was && c.opts.OnConnectionLost != nil {
		c.opts.OnConnectionLost(c, err)
	}
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	if !c.IsConnected() {
		return &fakeToken{err: errors.New("not connected")}
	}
	c.broker.deliver(topic, payload.([]byte))
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	c.broker.mu.Lock()
	c.broker.handlers[c] = callback
	c.broker.subCalls++
	c.broker.mu.Unlock()
	return &fakeToken{}
}

func (c *fakeClient) SubscribeMultiple(filters map[string]byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) pahomqtt.Token { return &fakeToken{} }

func (c *fakeClient) AddRoute(topic string, callback pahomqtt.MessageHandler) {}

func (c *fakeClient) OptionsReader() pahomqtt.ClientOptionsReader {
	return pahomqtt.ClientOptionsReader{}
}

func testConfig() models.TransportConfig {
	return models.TransportConfig{
		Driver:         constants.TransportMQTT,
		URL:            "tcp://broker.test:1883",
		Topic:          constants.TopicUpdates,
		ReconnectDelay: 20 * time.Millisecond,
	}
}

func sample(id string) models.PositionSample {
	return models.PositionSample{
		PublisherID: id,
		Route:       3,
		Direction:   models.DirectionUniToTown,
		Lat:         constants.UniversityLat,
		Lng:         constants.UniversityLng,
		LastUpdate:  models.NowMillis(),
	}
}

type collector struct {
	mu      sync.Mutex
	samples []models.PositionSample
}

func (c *collector) handle(s models.PositionSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, s)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

func TestNewClient(t *testing.T) {
	cfg := testConfig()
	cfg.URL = ""
	_, err := NewClient(cfg, "client_1")
	assert.Error(t, err)

	c, err := transport.New(testConfig(), "client_1")
	require.NoError(t, err)
	assert.IsType(t, &Client{}, c)
}

func TestClient_PublishSubscribe(t *testing.T) {
	broker := newFakeBroker(true)

	sub, err := NewClientWithFactory(testConfig(), "student_1", broker.factory)
	require.NoError(t, err)
	got := &collector{}
	sub.OnMessage(got.handle)
	require.NoError(t, sub.Connect(context.Background()))
	defer sub.Close()

	pub, err := NewClientWithFactory(testConfig(), "driver_1", broker.factory)
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	defer pub.Close()

	require.Eventually(t, func() bool {
		return pub.IsConnected() && sub.IsConnected() && broker.subscribeCount() == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, pub.Publish(context.Background(), sample("driver_1")))

	assert.Eventually(t, func() bool { return got.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), pub.Stats().Published)
	assert.Equal(t, uint64(1), sub.Stats().Received)
	assert.Equal(t, constants.TransportMQTT, pub.Stats().Driver)
}

func TestClient_UnreachableBrokerRetriesOnFixedDelay(t *testing.T) {
	broker := newFakeBroker(false)

	pub, err := NewClientWithFactory(testConfig(), "driver_1", broker.factory)
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	defer pub.Close()

	assert.False(t, pub.IsConnected())
	assert.NoError(t, pub.Publish(context.Background(), sample("driver_1")))
	assert.Equal(t, uint64(1), pub.Stats().Dropped)

	assert.Eventually(t, func() bool { return broker.dialCount() >= 3 }, time.Second, 5*time.Millisecond)
	assert.False(t, pub.IsConnected())

	broker.setUp(true)
	assert.Eventually(t, pub.IsConnected, time.Second, 5*time.Millisecond)
}

func TestClient_ReconnectsAndResubscribesAfterLoss(t *testing.T) {
	broker := newFakeBroker(true)

	sub, err := NewClientWithFactory(testConfig(), "student_1", broker.factory)
	require.NoError(t, err)
	got := &collector{}
	sub.OnMessage(got.handle)
	require.NoError(t, sub.Connect(context.Background()))
	defer sub.Close()

	require.Eventually(t, func() bool { return broker.subscribeCount() == 1 }, time.Second, 5*time.Millisecond)

	broker.dropAll()
	assert.False(t, sub.IsConnected())

	broker.setUp(true)
	assert.Eventually(t, func() bool { return broker.subscribeCount() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, sub.IsConnected())

	broker.deliver(constants.TopicUpdates, []byte(`{"id":"driver_2","route":1,"direction":"town_to_uni","lat":24.3,"lng":91.7,"lastUpdate":5}`))
	assert.Equal(t, 1, got.count())
}

func TestClient_SkipsMalformed(t *testing.T) {
	broker := newFakeBroker(true)

	sub, err := NewClientWithFactory(testConfig(), "student_1", broker.factory)
	require.NoError(t, err)
	got := &collector{}
	sub.OnMessage(got.handle)
	require.NoError(t, sub.Connect(context.Background()))
	defer sub.Close()
	require.Eventually(t, func() bool { return broker.subscribeCount() == 1 }, time.Second, 5*time.Millisecond)

	broker.deliver(constants.TopicUpdates, []byte(`garbage`))

	assert.Equal(t, 0, got.count())
	assert.Equal(t, uint64(1), sub.Stats().Malformed)
}

func TestClient_CloseStopsLoop(t *testing.T) {
	broker := newFakeBroker(false)

	pub, err := NewClientWithFactory(testConfig(), "driver_1", broker.factory)
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	require.NoError(t, pub.Close())

	dials := broker.dialCount()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, dials, broker.dialCount())
	assert.NoError(t, pub.Close())
}
