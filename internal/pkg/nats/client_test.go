package nats

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) models.TransportConfig {
	return models.TransportConfig{
		Driver:         constants.TransportNATS,
		URL:            url,
		Topic:          constants.TopicUpdates,
		ReconnectDelay: 50 * time.Millisecond,
		ConnectTimeout: time.Second,
	}
}

func sample(id string) models.PositionSample {
	return models.PositionSample{
		PublisherID: id,
		Route:       1,
		Direction:   models.DirectionTownToUni,
		Lat:         constants.TownLat,
		Lng:         constants.TownLng,
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
	t.Run("empty url", func(t *testing.T) {
		client, err := NewClient(testConfig(""), "client_1")
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("registered with the factory", func(t *testing.T) {
		client, err := transport.New(testConfig("nats://127.0.0.1:4222"), "client_1")
		require.NoError(t, err)
		assert.IsType(t, &Client{}, client)
	})
}

func TestClient_PublishSubscribe(t *testing.T) {
	s := natsserver.RunRandClientPortServer()
	defer s.Shutdown()

	sub, err := NewClient(testConfig(s.ClientURL()), "student_1")
	require.NoError(t, err)
	got := &collector{}
	sub.OnMessage(got.handle)
	require.NoError(t, sub.Connect(context.Background()))
	defer sub.Close()

	pub, err := NewClient(testConfig(s.ClientURL()), "driver_1")
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	defer pub.Close()
	require.NoError(t, sub.GetConn().Flush())

	require.NoError(t, pub.Publish(context.Background(), sample("driver_1")))

	assert.Eventually(t, func() bool { return got.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "driver_1", got.samples[0].PublisherID)
	assert.Equal(t, uint64(1), pub.Stats().Published)
	assert.Equal(t, uint64(1), sub.Stats().Received)
	assert.True(t, pub.IsConnected())
}

func TestClient_SkipsMalformed(t *testing.T) {
	s := natsserver.RunRandClientPortServer()
	defer s.Shutdown()

	sub, err := NewClient(testConfig(s.ClientURL()), "student_1")
	require.NoError(t, err)
	got := &collector{}
	sub.OnMessage(got.handle)
	require.NoError(t, sub.Connect(context.Background()))
	defer sub.Close()
	require.NoError(t, sub.GetConn().Flush())

	raw, err := nats.Connect(s.ClientURL())
	require.NoError(t, err)
	defer raw.Close()

	subject := transport.DotTopic(constants.TopicUpdates)
	require.NoError(t, raw.Publish(subject, []byte(`{"id":`)))
	require.NoError(t, raw.Publish(subject, []byte(`{"id":"driver_9","route":0,"direction":"town_to_uni","lat":1,"lng":1,"lastUpdate":1}`)))
	require.NoError(t, raw.Flush())

	assert.Eventually(t, func() bool { return sub.Stats().Malformed == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, got.count())
}

func TestClient_PublisherNeverSubscribes(t *testing.T) {
	s := natsserver.RunRandClientPortServer()
	defer s.Shutdown()

	pub, err := NewClient(testConfig(s.ClientURL()), "driver_1")
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	defer pub.Close()

	assert.Equal(t, 0, pub.GetConn().NumSubscriptions())
}

func TestClient_DropsWhileDisconnected(t *testing.T) {
	// nothing listens here; the connect call still succeeds and keeps retrying
	pub, err := NewClient(testConfig("nats://127.0.0.1:1"), "driver_1")
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	defer pub.Close()

	assert.False(t, pub.IsConnected())
	assert.NoError(t, pub.Publish(context.Background(), sample("driver_1")))
	assert.NoError(t, pub.Publish(context.Background(), sample("driver_1")))

	stats := pub.Stats()
	assert.Equal(t, uint64(2), stats.Dropped)
	assert.Equal(t, uint64(0), stats.Published)
}

func TestClient_ReconnectsAfterServerRestart(t *testing.T) {
	s := natsserver.RunRandClientPortServer()
	port := s.Addr().(*net.TCPAddr).Port

	pub, err := NewClient(testConfig(s.ClientURL()), "driver_1")
	require.NoError(t, err)
	require.NoError(t, pub.Connect(context.Background()))
	defer pub.Close()
	require.True(t, pub.IsConnected())

	s.Shutdown()
	assert.Eventually(t, func() bool { return !pub.IsConnected() }, 2*time.Second, 10*time.Millisecond)

	assert.NoError(t, pub.Publish(context.Background(), sample("driver_1")))
	assert.Equal(t, uint64(1), pub.Stats().Dropped)

	opts := natsserver.DefaultTestOptions
	opts.Port = port
	restarted := natsserver.RunServer(&opts)
	defer restarted.Shutdown()

	assert.Eventually(t, func() bool { return pub.IsConnected() }, 5*time.Second, 20*time.Millisecond)
}

