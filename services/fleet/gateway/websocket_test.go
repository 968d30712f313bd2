package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/pkg/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHub struct{}

func (failingHub) Broadcast(string, interface{}) error { return errors.New("encode failed") }

func TestWebSocketRenderGW_Render(t *testing.T) {
	hub := websocket.NewManager()
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error { return hub.HandleConnection(c, nil) })
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	gw := NewWebSocketRenderGW(hub)
	instr := models.RenderInstruction{
		State:   models.RenderStateNoActive,
		Markers: []models.Marker{},
		Removed: []string{"driver_1"},
	}
	require.NoError(t, gw.Render(context.Background(), instr))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, constants.EventFleetUpdate, msg.Event)

	var got models.RenderInstruction
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, instr, got)
}

func TestWebSocketRenderGW_RenderError(t *testing.T) {
	gw := NewWebSocketRenderGW(failingHub{})

	err := gw.Render(context.Background(), models.RenderInstruction{})

	assert.ErrorContains(t, err, "failed to broadcast fleet update")
}
