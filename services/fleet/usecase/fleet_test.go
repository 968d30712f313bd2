package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/observability"
	"github.com/piresc/unitransport/services/fleet/mocks"
	"github.com/piresc/unitransport/services/fleet/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseTime int64 = 1_700_000_000_000

func testConfig() *models.Config {
	return &models.Config{
		Fleet: models.FleetConfig{
			StoreDriver: constants.StoreMemory,
			StalenessMs: constants.StalenessThresholdMs,
		},
		Locations: models.Endpoints{
			Town:       town,
			University: models.Point{Lat: constants.UniversityLat, Lng: constants.UniversityLng},
		},
	}
}

type loopHarness struct {
	uc       *FleetUC
	clock    *atomic.Int64
	rendered chan models.RenderInstruction
	cancel   context.CancelFunc
	stopped  chan error
}

// startLoop runs a FleetUC over the memory store, recording every render
func startLoop(t *testing.T, cfg *models.Config) *loopHarness {
	ctrl := gomock.NewController(t)
	renderGW := mocks.NewMockRenderGW(ctrl)

	h := &loopHarness{
		clock:    &atomic.Int64{},
		rendered: make(chan models.RenderInstruction, 64),
		stopped:  make(chan error, 1),
	}
	h.clock.Store(baseTime)

	renderGW.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, instr models.RenderInstruction) error {
			select {
			case h.rendered <- instr:
			default:
			}
			return nil
		}).AnyTimes()

	h.uc = NewFleetUC(cfg, repository.NewMemoryFleetRepo(), renderGW)
	h.uc.now = h.clock.Load

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.stopped <- h.uc.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.stopped
	})
	return h
}

func (h *loopHarness) next(t *testing.T) models.RenderInstruction {
	t.Helper()
	select {
	case instr := <-h.rendered:
		return instr
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for render")
		return models.RenderInstruction{}
	}
}

func TestFleetUC_EndToEndStaleness(t *testing.T) {
	h := startLoop(t, testConfig())
	ctx := context.Background()

	initial := h.next(t)
	assert.Equal(t, models.RenderStateNoActive, initial.State)

	h.clock.Store(baseTime + 5000)
	require.NoError(t, h.uc.Ingest(ctx, sampleAt("p1", 1, models.DirectionTownToUni, 0, baseTime)))

	instr := h.next(t)
	assert.Equal(t, models.RenderStateActive, instr.State)
	require.Len(t, instr.Markers, 1)
	assert.Equal(t, "p1", instr.Markers[0].PublisherID)
	require.NotNil(t, instr.Overlay)
	assert.Equal(t, "0.0 km away", instr.Overlay.DistanceText)
	assert.Equal(t, "0 mins away", instr.Overlay.EtaText)

	h.clock.Store(baseTime + 31000)
	view, err := h.uc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RenderStateNoActive, view.State)
	assert.Empty(t, view.Markers)
	assert.Nil(t, view.Overlay)
	assert.Equal(t, []string{"p1"}, view.Removed)
}

func TestFleetUC_ViewDoesNotMoveBaseline(t *testing.T) {
	h := startLoop(t, testConfig())
	ctx := context.Background()
	h.next(t)

	require.NoError(t, h.uc.Ingest(ctx, sampleAt("p1", 1, models.DirectionTownToUni, 0, baseTime)))
	h.next(t)

	h.clock.Store(baseTime + 40000)
	for i := 0; i < 2; i++ {
		view, err := h.uc.View(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, view.Removed)
	}

	// a committed render moves the baseline
	instr, err := h.uc.SetFilter(ctx, models.ViewFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, instr.Removed)
	assert.Equal(t, instr, h.next(t))

	view, err := h.uc.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Removed)
}

func TestFleetUC_SetFilter(t *testing.T) {
	h := startLoop(t, testConfig())
	ctx := context.Background()
	h.next(t)

	require.NoError(t, h.uc.Ingest(ctx, sampleAt("p1", 1, models.DirectionTownToUni, 0.001, baseTime)))
	h.next(t)
	require.NoError(t, h.uc.Ingest(ctx, sampleAt("p2", 2, models.DirectionUniToTown, 0.002, baseTime)))
	both := h.next(t)
	assert.Len(t, both.Markers, 2)

	filter := models.ViewFilter{Route: intPtr(2)}
	instr, err := h.uc.SetFilter(ctx, filter)
	require.NoError(t, err)
	require.Len(t, instr.Markers, 1)
	assert.Equal(t, "p2", instr.Markers[0].PublisherID)
	assert.Equal(t, []string{"p1"}, instr.Removed)
	assert.Equal(t, filter, instr.Filter)
	h.next(t)

	got, err := h.uc.Filter(ctx)
	require.NoError(t, err)
	assert.Equal(t, filter, got)

	// samples that fail the filter still update the store
	require.NoError(t, h.uc.Ingest(ctx, sampleAt("p1", 1, models.DirectionTownToUni, 0, baseTime+100)))
	filtered := h.next(t)
	assert.Len(t, filtered.Markers, 1)

	cleared, err := h.uc.SetFilter(ctx, models.ViewFilter{})
	require.NoError(t, err)
	require.Len(t, cleared.Markers, 2)
	assert.Equal(t, "p1", cleared.Overlay.PublisherID)
}

func TestFleetUC_StartupFilterFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Fleet.FilterDirection = string(models.DirectionUniToTown)
	h := startLoop(t, cfg)

	got, err := h.uc.Filter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got.Direction)
	assert.Equal(t, models.DirectionUniToTown, *got.Direction)
	assert.Nil(t, got.Route)
}

func TestFleetUC_RefreshTickRemovesDeparted(t *testing.T) {
	cfg := testConfig()
	cfg.Fleet.RefreshInterval = 10 * time.Millisecond
	h := startLoop(t, cfg)
	ctx := context.Background()

	require.NoError(t, h.uc.Ingest(ctx, sampleAt("p1", 1, models.DirectionTownToUni, 0, baseTime)))
	deadline := time.After(2 * time.Second)
	for {
		instr := h.next(t)
		if instr.State == models.RenderStateActive {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sample never became active")
		default:
		}
	}

	h.clock.Store(baseTime + 30001)
	for {
		instr := h.next(t)
		if len(instr.Removed) > 0 {
			assert.Equal(t, []string{"p1"}, instr.Removed)
			assert.Equal(t, models.RenderStateNoActive, instr.State)
			return
		}
		select {
		case <-deadline:
			t.Fatal("refresh never removed the stale sample")
		default:
		}
	}
}

func TestFleetUC_IngestErrorSkipsRender(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockFleetStateRepo(ctrl)
	renderGW := mocks.NewMockRenderGW(ctrl)

	repo.EXPECT().Snapshot(gomock.Any()).Return(nil, nil).Times(2)
	repo.EXPECT().Ingest(gomock.Any(), gomock.Any()).Return(errors.New("store down"))
	renderGW.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	uc := NewFleetUC(testConfig(), repo, renderGW)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.Run(ctx) }()

	require.NoError(t, uc.Ingest(ctx, sampleAt("p1", 1, models.DirectionTownToUni, 0, baseTime)))
	_, err := uc.View(ctx)
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)
}

func TestFleetUC_RenderErrorIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderGW := mocks.NewMockRenderGW(ctrl)
	renderGW.EXPECT().Render(gomock.Any(), gomock.Any()).Return(errors.New("no clients")).AnyTimes()

	uc := NewFleetUC(testConfig(), repository.NewMemoryFleetRepo(), renderGW)
	uc.now = func() int64 { return baseTime }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go uc.Run(ctx)

	instr, err := uc.SetFilter(ctx, models.ViewFilter{Route: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.RenderStateNoActive, instr.State)
}

func TestFleetUC_SnapshotErrorSurfacesOnQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockFleetStateRepo(ctrl)
	renderGW := mocks.NewMockRenderGW(ctrl)
	repo.EXPECT().Snapshot(gomock.Any()).Return(nil, errors.New("store down")).AnyTimes()

	uc := NewFleetUC(testConfig(), repo, renderGW)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go uc.Run(ctx)

	_, err := uc.View(ctx)
	assert.ErrorContains(t, err, "store down")
}

func TestFleetUC_StoppedLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderGW := mocks.NewMockRenderGW(ctrl)
	renderGW.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	uc := NewFleetUC(testConfig(), repository.NewMemoryFleetRepo(), renderGW)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.Run(ctx) }()

	_, err := uc.View(context.Background())
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)

	assert.ErrorIs(t, uc.Ingest(context.Background(), sampleAt("p1", 1, models.DirectionTownToUni, 0, baseTime)), ErrLoopStopped)
	_, err = uc.View(context.Background())
	assert.ErrorIs(t, err, ErrLoopStopped)
	_, err = uc.Filter(context.Background())
	assert.ErrorIs(t, err, ErrLoopStopped)
	assert.ErrorIs(t, uc.Run(context.Background()), ErrAlreadyRunning)
}

type countingTracer struct {
	mu    sync.Mutex
	names []string
	attrs map[string]interface{}
}

func (c *countingTracer) StartTransaction(ctx context.Context, name string) (context.Context, observability.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
	return ctx, c
}

func (c *countingTracer) AddAttribute(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[key] = value
}

func (c *countingTracer) NoticeError(error) {}
func (c *countingTracer) End()              {}

func TestFleetUC_TracesRenderPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderGW := mocks.NewMockRenderGW(ctrl)
	renderGW.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tracer := &countingTracer{attrs: map[string]interface{}{}}
	uc := NewFleetUC(testConfig(), repository.NewMemoryFleetRepo(), renderGW, WithTracer(tracer))
	uc.now = func() int64 { return baseTime }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go uc.Run(ctx)

	_, err := uc.SetFilter(ctx, models.ViewFilter{})
	require.NoError(t, err)

	tracer.mu.Lock()
	defer tracer.mu.Unlock()
	assert.Equal(t, []string{"fleet/render", "fleet/render"}, tracer.names)
	assert.Equal(t, 0, tracer.attrs["active"])
}
