package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/observability"
	"github.com/piresc/unitransport/services/fleet"
)

const eventBufferSize = 256

var (
	// ErrLoopStopped is returned once Run has exited
	ErrLoopStopped = errors.New("fleet event loop stopped")
	// ErrAlreadyRunning is returned by a second Run call
	ErrAlreadyRunning = errors.New("fleet event loop already running")
)

type eventKind int

const (
	eventIngest eventKind = iota
	eventGetFilter
	eventSetFilter
	eventView
)

type event struct {
	kind   eventKind
	sample models.PositionSample
	filter models.ViewFilter
	reply  chan result
}

type result struct {
	instruction models.RenderInstruction
	filter      models.ViewFilter
	err         error
}

// FleetUC implements the fleet use case interface
type FleetUC struct {
	fleetRepo fleet.FleetStateRepo
	renderGW  fleet.RenderGW
	tracer    observability.Tracer

	reference       models.Point
	stalenessMs     int64
	refreshInterval time.Duration
	now             func() int64

	events  chan event
	done    chan struct{}
	running atomic.Bool

	// owned by the loop goroutine
	filter   models.ViewFilter
	rendered map[string]struct{}
}

// Option customizes a FleetUC
type Option func(*FleetUC)

// WithTracer records every render pass as a background transaction
func WithTracer(tracer observability.Tracer) Option {
	return func(uc *FleetUC) {
		uc.tracer = tracer
	}
}

// NewFleetUC creates a new fleet use case
func NewFleetUC(
	cfg *models.Config,
	fleetRepo fleet.FleetStateRepo,
	renderGW fleet.RenderGW,
	opts ...Option,
) *FleetUC {
	uc := &FleetUC{
		fleetRepo:       fleetRepo,
		renderGW:        renderGW,
		tracer:          observability.NoOpTracer{},
		reference:       cfg.Locations.Town,
		stalenessMs:     cfg.Fleet.StalenessMs,
		refreshInterval: cfg.Fleet.RefreshInterval,
		now:             models.NowMillis,
		events:          make(chan event, eventBufferSize),
		done:            make(chan struct{}),
		filter:          FilterFromConfig(cfg.Fleet),
		rendered:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run renders once, then serves events until ctx is cancelled
func (uc *FleetUC) Run(ctx context.Context) error {
	if !uc.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(uc.done)

	var tick <-chan time.Time
	if uc.refreshInterval > 0 {
		ticker := time.NewTicker(uc.refreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info("Fleet event loop started",
		logger.Int64("staleness_ms", uc.stalenessMs),
		logger.Duration("refresh_interval", uc.refreshInterval))

	uc.render(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Fleet event loop stopped")
			return nil
		case ev := <-uc.events:
			uc.handle(ctx, ev)
		case <-tick:
			uc.render(ctx)
		}
	}
}

func (uc *FleetUC) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case eventIngest:
		if err := uc.fleetRepo.Ingest(ctx, ev.sample); err != nil {
			logger.Warn("Failed to store position sample",
				logger.String("publisher_id", ev.sample.PublisherID),
				logger.Err(err))
			return
		}
		uc.render(ctx)
	case eventGetFilter:
		ev.reply <- result{filter: uc.filter}
	case eventSetFilter:
		uc.filter = ev.filter
		instr, err := uc.render(ctx)
		ev.reply <- result{instruction: instr, filter: uc.filter, err: err}
	case eventView:
		instr, err := uc.compute(ctx)
		ev.reply <- result{instruction: instr, filter: uc.filter, err: err}
	}
}

// compute builds the current instruction against the baseline without moving it
func (uc *FleetUC) compute(ctx context.Context) (models.RenderInstruction, error) {
	samples, err := uc.fleetRepo.Snapshot(ctx)
	if err != nil {
		return models.RenderInstruction{}, fmt.Errorf("failed to snapshot fleet state: %w", err)
	}
	view := Reconcile(samples, uc.filter, uc.reference, uc.now(), uc.stalenessMs)
	return BuildInstruction(view, uc.filter, uc.rendered), nil
}

// render computes, commits the new baseline and hands the instruction to the gateway
func (uc *FleetUC) render(ctx context.Context) (models.RenderInstruction, error) {
	ctx, txn := uc.tracer.StartTransaction(ctx, "fleet/render")
	defer txn.End()

	instr, err := uc.compute(ctx)
	if err != nil {
		txn.NoticeError(err)
		logger.Warn("Skipping fleet render", logger.Err(err))
		return instr, err
	}
	txn.AddAttribute("active", len(instr.Markers))
	txn.AddAttribute("removed", len(instr.Removed))

	uc.rendered = make(map[string]struct{}, len(instr.Markers))
	for _, m := range instr.Markers {
		uc.rendered[m.PublisherID] = struct{}{}
	}

	if err := uc.renderGW.Render(ctx, instr); err != nil {
		txn.NoticeError(err)
		logger.Warn("Failed to deliver render instruction", logger.Err(err))
	}

	logger.Debug("Fleet view rendered",
		logger.String("state", string(instr.State)),
		logger.Int("active", len(instr.Markers)),
		logger.Int("removed", len(instr.Removed)))
	return instr, nil
}

func (uc *FleetUC) send(ctx context.Context, ev event) error {
	select {
	case <-uc.done:
		return ErrLoopStopped
	default:
	}

	select {
	case uc.events <- ev:
		return nil
	case <-uc.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *FleetUC) request(ctx context.Context, ev event) (result, error) {
	ev.reply = make(chan result, 1)
	if err := uc.send(ctx, ev); err != nil {
		return result{}, err
	}

	select {
	case res := <-ev.reply:
		return res, res.err
	case <-uc.done:
		return result{}, ErrLoopStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// Ingest queues a sample; the store write and render happen on the loop
func (uc *FleetUC) Ingest(ctx context.Context, sample models.PositionSample) error {
	return uc.send(ctx, event{kind: eventIngest, sample: sample})
}

// Filter returns the active filter
func (uc *FleetUC) Filter(ctx context.Context) (models.ViewFilter, error) {
	res, err := uc.request(ctx, event{kind: eventGetFilter})
	return res.filter, err
}

// SetFilter replaces the filter and re-renders
func (uc *FleetUC) SetFilter(ctx context.Context, filter models.ViewFilter) (models.RenderInstruction, error) {
	res, err := uc.request(ctx, event{kind: eventSetFilter, filter: filter})
	return res.instruction, err
}

// View recomputes at query time
func (uc *FleetUC) View(ctx context.Context) (models.RenderInstruction, error) {
	res, err := uc.request(ctx, event{kind: eventView})
	return res.instruction, err
}
