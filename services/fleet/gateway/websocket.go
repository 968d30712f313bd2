package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/services/fleet"
)

// Broadcaster fans an event out to every connected viewer
type Broadcaster interface {
	Broadcast(event string, data interface{}) error
}

// WebSocketRenderGW pushes each render instruction to live viewers
type WebSocketRenderGW struct {
	hub Broadcaster
}

// NewWebSocketRenderGW creates a render gateway over a WebSocket hub
func NewWebSocketRenderGW(hub Broadcaster) fleet.RenderGW {
	return &WebSocketRenderGW{hub: hub}
}

// Render broadcasts the instruction as a fleet_update event
func (g *WebSocketRenderGW) Render(ctx context.Context, instruction models.RenderInstruction) error {
	if err := g.hub.Broadcast(constants.EventFleetUpdate, instruction); err != nil {
		return fmt.Errorf("failed to broadcast fleet update: %w", err)
	}
	return nil
}
