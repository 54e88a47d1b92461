package wshandler

import (
	"net/http"

	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/metrics"
	"github.com/Temutjin2k/swiftdrop/pkg/uuid"
	ws "github.com/Temutjin2k/swiftdrop/pkg/wsHub"
	"github.com/gorilla/websocket"
)

const serviceName = "swiftdrop"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TrackingHandler upgrades tracking requests to WebSocket connections
// and pushes courier phase updates to every watcher.
type TrackingHandler struct {
	connections *ws.ConnectionHub
	l           logger.Logger
}

func NewTrackingHandler(connections *ws.ConnectionHub, l logger.Logger) *TrackingHandler {
	return &TrackingHandler{
		connections: connections,
		l:           l,
	}
}

// Track godoc
// @Summary      Track the active delivery
// @Description  Upgrades to a WebSocket pushing tracking_update messages
// @Tags         Delivery
// @Router       /v1/delivery/track [get]
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_track_delivery")

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(ctx, "failed to upgrade tracking connection", err)
		return
	}

	connID := uuid.MustNew()
	conn := ws.NewConn(r.Context(), connID, wsConn)

	if err := h.connections.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register tracking connection", err)
		conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(serviceName).Inc()

	// the client only listens; drain until the peer goes away
	go func() {
		defer func() {
			h.connections.Delete(connID)
			metrics.WebSocketConnectionsGauge.WithLabelValues(serviceName).Dec()
		}()

		_ = conn.Listen(func(_ map[string]any) error { return nil })
	}()
}

// Notify fans a tracking update out to every open connection. Satisfies
// the courier simulator's notifier contract.
func (h *TrackingHandler) Notify(update models.TrackingUpdate) {
	h.connections.Broadcast(update)
}
